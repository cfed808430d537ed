// totality-vet runs the exhaustiveness analyzer as a standalone vet tool:
//
//	go vet -vettool=$(which totality-vet) ./...
package main

import (
	"github.com/gnolang/totality/internal/totality"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(totality.Analyzer)
}
