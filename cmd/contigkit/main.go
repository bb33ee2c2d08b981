// cmd/contigkit/main.go
package main

import (
	"contigkit/internal/app"
	"contigkit/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
