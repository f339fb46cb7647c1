package vtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		manifest *string
		want     ProjectType
		wantOK   bool
	}{
		{name: "no manifest", manifest: nil, wantOK: false},
		{name: "no match defaults to nodejs", manifest: strptr(`{"name":"tool","dependencies":{"lodash":"4"}}`), want: NodeJS, wantOK: true},
		{name: "angular", manifest: strptr(`{"dependencies":{"@angular/core":"17"}}`), want: Angular, wantOK: true},
		{name: "react", manifest: strptr(`{"dependencies":{"react":"18"}}`), want: React, wantOK: true},
		{name: "first match wins", manifest: strptr(`{"devDependencies":{"vue-loader":"1","react":"18"}}`), want: Vue, wantOK: true},
		{name: "case insensitive", manifest: strptr(`{"description":"A React starter"}`), want: React, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.manifest != nil {
				if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(*tt.manifest), 0644); err != nil {
					t.Fatal(err)
				}
			}
			got, ok := Classify(dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func strptr(s string) *string { return &s }
