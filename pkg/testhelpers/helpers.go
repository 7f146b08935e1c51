package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/fatih/structtag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This are just minor helpers to clean up the test code a bit
// No major logic should be added to this package. Typically functions should
// be just a few lines long.

func ErrIfTrue(condition bool) error {
	if condition {
		return assert.AnError
	}
	return nil
}

// Writes contents to a file in a temporary directory that is removed when the
// test completes, and returns the file path.
func WriteTempFile(t testing.TB, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

type runnableTB interface {
	testing.TB
	Run(name string, f func(t *testing.T)) bool
}

// Checks the conventions for option structs read from config files: every
// exported field has a camel case YAML name, and no field is required.
func OptStructTest[T interface{}](t runnableTB) {
	var defaultVal T
	reflectType := reflect.TypeOf(defaultVal)

	for fieldNum := range reflectType.NumField() {
		field := reflectType.Field(fieldNum)
		if !field.IsExported() {
			continue
		}

		t.Run(
			fmt.Sprintf("Test %s field", field.Name),
			func(t *testing.T) {
				tags, err := structtag.Parse(string(field.Tag))
				require.NoError(t, err)

				require.Contains(t, tags.Keys(), "yaml")
				yamlTag, err := tags.Get("yaml")
				require.NoError(t, err)
				if yamlTag.HasOption("inline") {
					assert.Empty(t, yamlTag.Name)
				} else {
					assert.Regexp(t, "^[a-z]+[A-Za-z]*$", yamlTag.Name)
					assert.True(t, yamlTag.HasOption("omitempty"), "optional fields should be omitted when empty")
				}

				if slices.Contains(tags.Keys(), "jsonschema") {
					jsonSchemaTag, err := tags.Get("jsonschema")
					require.NoError(t, err)
					assert.NotEqual(t, "required", jsonSchemaTag.Name)
					assert.NotContains(t, jsonSchemaTag.Options, "required")
				}
			},
		)
	}
}
