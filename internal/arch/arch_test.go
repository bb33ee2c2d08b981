// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	outer := []string{
		"contigkit/internal/pipeline", "contigkit/internal/writers", "contigkit/internal/output",
		"contigkit/internal/appcore", "contigkit/internal/app", "contigkit/internal/config",
		"contigkit/internal/progress", "contigkit/cmd/",
	}
	bans := map[string][]string{
		// the parsing core knows nothing about presentation or the CLI
		"contigkit/internal/gapmap":   append([]string{"contigkit/internal/assembly", "contigkit/internal/contig"}, outer...),
		"contigkit/internal/model":    append([]string{"contigkit/internal/assembly", "contigkit/internal/contig"}, outer...),
		"contigkit/internal/assembly": append([]string{"contigkit/internal/align", "contigkit/internal/contig"}, outer...),
		"contigkit/internal/align":    append([]string{"contigkit/internal/assembly", "contigkit/internal/contig"}, outer...),
		"contigkit/internal/mates":    append([]string{"contigkit/internal/contig"}, outer...),
		"contigkit/internal/contig":   outer,
		"contigkit/internal/pipeline": {
			"contigkit/internal/appcore", "contigkit/internal/app", "contigkit/internal/writers",
			"contigkit/internal/progress", "contigkit/cmd/",
		},
		"contigkit/internal/writers": {
			"contigkit/internal/appcore", "contigkit/internal/app",
			"contigkit/internal/pipeline", "contigkit/internal/contig", "contigkit/cmd/",
		},
		"contigkit/internal/output": {
			"contigkit/internal/appcore", "contigkit/internal/app", "contigkit/internal/writers",
			"contigkit/internal/pipeline", "contigkit/internal/contig", "contigkit/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "contigkit/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "contigkit/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
