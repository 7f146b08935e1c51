package features

import (
	"context"
	"io"
	"os"
	"reflect"
	"slices"

	"github.com/fatih/structtag"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/gravitational/trace"
	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"
)

const (
	jsonSchemaTagName = "jsonschema"
	validationTagName = "validate"
)

// Reads a YAML config file, named by a required CLI flag, into a struct of
// type T. Fields are validated using their "jsonschema" and "validate" tags.
// A path of "-" reads from stdin.
type ConfigFileCommand[T interface{}] struct {
	ConfigFilePath string
	// Used when the path is "-". Defaults to os.Stdin.
	Stdin io.Reader
}

func (cfc *ConfigFileCommand[T]) ConfigureFlags(cmd *cobra.Command) {
	const flagName = "config-file"
	cmd.Flags().StringVarP(&cfc.ConfigFilePath, flagName, "c", "", "Path to the configuration file, or - for stdin")
	cmd.MarkFlagFilename(flagName, "yaml", "yml")
	cmd.MarkFlagRequired(flagName)
}

// Adds "required" to the "validate" tag of a field when its "jsonschema" tag
// marks it as required, so that both tag sets are enforced at load time.
func processField(field reflect.StructField) (reflect.StructField, error) {
	tags, err := structtag.Parse(string(field.Tag))
	if err != nil {
		return field, trace.Wrap(err, "failed to parse struct tags for field %q", field.Name)
	}

	tagKeys := tags.Keys()
	if !slices.Contains(tagKeys, jsonSchemaTagName) {
		return field, nil
	}

	jsonSchemaTag, err := tags.Get(jsonSchemaTagName)
	if err != nil {
		return field, trace.Wrap(err, "failed to get %s tag for field %q", jsonSchemaTagName, field.Name)
	}

	if jsonSchemaTag.Name != "required" && !jsonSchemaTag.HasOption("required") {
		return field, nil
	}

	validatorTag := &structtag.Tag{
		Key: validationTagName,
	}
	if slices.Contains(tagKeys, validationTagName) {
		validatorTag, err = tags.Get(validationTagName)
		if err != nil {
			return field, trace.Wrap(err, "failed to get %s tag for field %q", validationTagName, field.Name)
		}
	}

	switch {
	case validatorTag.Name == "":
		validatorTag.Name = "required"
	case validatorTag.Name == "required" || slices.Contains(validatorTag.Options, "required"):
		// Already enforced
	default:
		validatorTag.Options = append(validatorTag.Options, "required")
	}

	if err := tags.Set(validatorTag); err != nil {
		return field, trace.Wrap(err, "failed to set %s tag for field %q", validationTagName, field.Name)
	}

	field.Tag = reflect.StructTag(tags.String())
	return field, nil
}

// Builds a new struct type from reflectType with "jsonschema" required markers
// translated to "validate" tags. Nested structs are translated recursively.
func translateJSONSchemaTags(reflectType reflect.Type) (reflect.Type, error) {
	if reflectType.Kind() != reflect.Struct {
		return nil, trace.BadParameter("expected a struct type, got %q", reflectType.Kind())
	}

	fieldCount := reflectType.NumField()
	if fieldCount == 0 {
		return reflectType, nil
	}

	changed := false
	fields := make([]reflect.StructField, 0, fieldCount)
	for fieldNum := range fieldCount {
		originalField := reflectType.Field(fieldNum)
		field, err := processField(originalField)
		if err != nil {
			return nil, trace.Wrap(err, "failed to process field %q", field.Name)
		}

		if field.Type.Kind() == reflect.Struct {
			translatedType, err := translateJSONSchemaTags(field.Type)
			if err != nil {
				return nil, trace.Wrap(err, "failed to translate field %q", field.Name)
			}
			field.Type = translatedType
		}

		changed = changed || field.Tag != originalField.Tag || field.Type != originalField.Type
		fields = append(fields, field)
	}

	// Keep the original type when possible so that values can be copied as is
	if !changed {
		return reflectType, nil
	}
	return reflect.StructOf(fields), nil
}

// Validates config against its "validate" tags and any required "jsonschema"
// tags. The config's own type is left untouched; values are copied into an
// equivalent type carrying the translated tags.
func validateConfig[T interface{}](ctx context.Context, config T) error {
	translatedType, err := translateJSONSchemaTags(reflect.TypeOf(config))
	if err != nil {
		return trace.Wrap(err, "failed to translate jsonschema tags to validate tags")
	}

	translated := reflect.New(translatedType).Interface()
	if err := copier.Copy(translated, &config); err != nil {
		return trace.Wrap(err, "failed to copy values from config to translated config")
	}

	configValidator := validator.New(validator.WithRequiredStructEnabled())
	return trace.Wrap(configValidator.StructCtx(ctx, translated))
}

// Decodes and validates a config. Unknown fields are rejected.
func DecodeConfig[T interface{}](ctx context.Context, contents []byte) (T, error) {
	var config T
	err := yaml.UnmarshalContext(ctx, contents, &config, yaml.Strict())
	if err != nil {
		var defaultVal T
		return defaultVal, trace.Wrap(err, "failed to unmarshal config")
	}

	if err := validateConfig(ctx, config); err != nil {
		var defaultVal T
		return defaultVal, trace.Wrap(err, "failed to validate config")
	}

	return config, nil
}

func (cfc *ConfigFileCommand[T]) readContents() ([]byte, error) {
	if cfc.ConfigFilePath != "-" {
		contents, err := os.ReadFile(cfc.ConfigFilePath)
		return contents, trace.Wrap(err, "failed to read config file %q", cfc.ConfigFilePath)
	}

	stdin := cfc.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	contents, err := io.ReadAll(stdin)
	return contents, trace.Wrap(err, "failed to read config from stdin")
}

// Read the configuration file provided via CLI flag, validate it, and return the loaded configuration.
func (cfc *ConfigFileCommand[T]) ReadConfigFile(ctx context.Context) (T, error) {
	contents, err := cfc.readContents()
	if err != nil {
		var defaultVal T
		return defaultVal, err
	}

	config, err := DecodeConfig[T](ctx, contents)
	return config, trace.Wrap(err, "failed to load config file %q", cfc.ConfigFilePath)
}

func (cfc *ConfigFileCommand[T]) GenerateConfigSchema() ([]byte, error) {
	configInstance := new(T)
	schemaReflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
	}
	schema, err := schemaReflector.Reflect(configInstance).MarshalJSON()
	return schema, trace.Wrap(err, "failed to marshal schema for %T", configInstance)
}
