package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Reads a /fields schema dump from stdin and prints the leaf (non-object)
// field paths as a quoted list, handy for building default field sets.

type Field struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		panic(err)
	}

	var payload struct {
		Fields []Field `json:"fields"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		panic(err)
	}

	for _, f := range payload.Fields {
		if f.Type != "object" && f.Type != "nested" {
			fmt.Printf("%q,\n", f.Field)
		}
	}
}
