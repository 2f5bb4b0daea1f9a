package driver

import (
	"wscheck/internal/diag"
	"wscheck/internal/lexer"
	"wscheck/internal/source"
	"wscheck/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Syntax  *lexer.Syntax
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file with the syntax the registry picks for it.
// A nil registry uses the built-in presets.
func Tokenize(path string, reg *lexer.Registry, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	syn := reg.ForPath(file.Path)
	tokens := lexer.Tokenize(file, lexer.Options{
		Syntax:   syn,
		Reporter: lineReporter{bag: bag, file: file},
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Syntax:  syn,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
