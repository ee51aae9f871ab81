package gen

import (
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapter-generator/internal/naming"
	"adapter-generator/internal/registry"
	"adapter-generator/internal/typemodel"
)

func named(path, pkgName, name string) *types.Named {
	pkg := types.NewPackage(path, pkgName)

	return types.NewNamed(types.NewTypeName(token.NoPos, pkg, name, nil), types.NewStruct(nil, nil), nil)
}

func binding(id string, src, tgt types.Type) naming.Binding {
	return naming.Binding{
		Entry:      registry.Entry{Pair: typemodel.TypePair{Source: src, Target: tgt}},
		Identifier: id,
	}
}

func testConfig() GeneratorConfig {
	return GeneratorConfig{
		PackagePath:    "example.com/app/convadapter",
		PackageName:    "convadapter",
		ArtifactName:   "ConversionServiceAdapter",
		DispatcherName: "primary",
	}
}

func mustParse(t *testing.T, file *GeneratedFile) {
	t.Helper()

	_, err := parser.ParseFile(token.NewFileSet(), file.Filename, file.Content, parser.AllErrors)
	require.NoError(t, err, string(file.Content))
}

func TestGenerator_Generate(t *testing.T) {
	car := named("example.com/app/cars", "cars", "Car")
	carDto := named("example.com/app/dto", "dto", "CarDto")
	tag := named("golang.org/x/text/language", "language", "Tag")

	file, err := NewGenerator(testConfig()).Generate([]naming.Binding{
		binding("MapStringToTag", types.Typ[types.String], tag),
		binding("MapCarToCarDto", types.NewPointer(car), carDto),
	})
	require.NoError(t, err)
	mustParse(t, file)

	assert.Equal(t, "conversion_service_adapter_gen.go", file.Filename)

	src := string(file.Content)
	assert.True(t, strings.HasPrefix(src, "// Code generated by adapter-generator. DO NOT EDIT.\n"), src)
	assert.Contains(t, src, "package convadapter\n")
	assert.Contains(t, src, `"adapter-generator/convert"`)
	assert.Contains(t, src, `"example.com/app/cars"`)
	assert.Contains(t, src, `"golang.org/x/text/language"`)
	assert.Contains(t, src, `const ConversionServiceAdapterDispatcherName = "primary"`)
	assert.Contains(t, src, "type ConversionServiceAdapter struct {\n\tdispatcher convert.Dispatcher\n}")
	assert.Contains(t, src, "func NewConversionServiceAdapter(dispatcher convert.Dispatcher) *ConversionServiceAdapter {")
	assert.Contains(t, src,
		"func NewConversionServiceAdapterFromRegistry(registry *convert.DispatcherRegistry) (*ConversionServiceAdapter, error) {")
	assert.Contains(t, src, "func (a *ConversionServiceAdapter) MapStringToTag(source string) (language.Tag, error) {\n"+
		"\treturn convert.Dispatch[language.Tag](a.dispatcher, source)\n}")
	assert.Contains(t, src, "func (a *ConversionServiceAdapter) MapCarToCarDto(source *cars.Car) (dto.CarDto, error) {")

	// Methods follow binding order.
	assert.Less(t, strings.Index(src, "MapStringToTag("), strings.Index(src, "MapCarToCarDto("))
}

func TestGenerator_Deterministic(t *testing.T) {
	bindings := []naming.Binding{
		binding("MapOrderToOrderDto", named("example.com/z/store", "store", "Order"), named("example.com/z/store", "store", "OrderDto")),
		binding("MapOrderToOrderDto2", named("example.com/a/warehouse", "warehouse", "Order"), named("example.com/a/warehouse", "warehouse", "OrderDto")),
	}

	first, err := NewGenerator(testConfig()).Generate(bindings)
	require.NoError(t, err)

	second, err := NewGenerator(testConfig()).Generate(bindings)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Filename, second.Filename)
}

func TestGenerator_ImportAliases(t *testing.T) {
	apiModel := named("example.com/api/model", "model", "User")
	dbModel := named("example.com/db/model", "model", "User")
	source := named("example.com/source", "source", "Row")
	otherConvert := named("example.com/convert", "convert", "Value")

	file, err := NewGenerator(testConfig()).Generate([]naming.Binding{
		// Listed db first: aliases still follow import path order.
		binding("MapUserToUser", dbModel, apiModel),
		binding("MapRowToValue", source, otherConvert),
	})
	require.NoError(t, err, spew.Sdump(file))
	mustParse(t, file)

	src := string(file.Content)
	assert.Contains(t, src, "\t\"example.com/api/model\"\n", src)
	assert.Contains(t, src, `model2 "example.com/db/model"`)
	// "source" is the parameter name of every method.
	assert.Contains(t, src, `source2 "example.com/source"`)
	// The runtime package keeps its name.
	assert.Contains(t, src, `convert2 "example.com/convert"`)
	assert.Contains(t, src, "MapUserToUser(source model2.User) (model.User, error)")
	assert.Contains(t, src, "MapRowToValue(source source2.Row) (convert2.Value, error)")
}

func TestImportSpec_NeedsAlias(t *testing.T) {
	assert.False(t, importSpec{Alias: "model", Path: "example.com/api/model"}.NeedsAlias())
	assert.True(t, importSpec{Alias: "model2", Path: "example.com/db/model"}.NeedsAlias())
	assert.True(t, importSpec{Alias: "yaml", Path: "gopkg.in/yaml.v3"}.NeedsAlias())
}

func TestGenerator_OwnPackageUnqualified(t *testing.T) {
	local := named("example.com/app/convadapter", "convadapter", "Local")

	file, err := NewGenerator(testConfig()).Generate([]naming.Binding{
		binding("MapStringToLocal", types.Typ[types.String], local),
	})
	require.NoError(t, err)

	src := string(file.Content)
	assert.Contains(t, src, "MapStringToLocal(source string) (Local, error)")
	assert.NotContains(t, src, `"example.com/app/convadapter"`)
}

func TestGenerator_CompositeTypes(t *testing.T) {
	tag := named("example.com/app/labels", "labels", "Tag")

	file, err := NewGenerator(testConfig()).Generate([]naming.Binding{
		binding("MapStringSliceToTagSlice", types.NewSlice(types.Typ[types.String]), types.NewSlice(tag)),
		binding("MapMapStringTagToInt", types.NewMap(types.Typ[types.String], types.NewPointer(tag)), types.Typ[types.Int]),
	})
	require.NoError(t, err)
	mustParse(t, file)

	src := string(file.Content)
	assert.Contains(t, src, "MapStringSliceToTagSlice(source []string) ([]labels.Tag, error)")
	assert.Contains(t, src, "convert.Dispatch[[]labels.Tag](a.dispatcher, source)")
	assert.Contains(t, src, "MapMapStringTagToInt(source map[string]*labels.Tag) (int, error)")
}

func TestGenerator_Errors(t *testing.T) {
	car := named("example.com/app/cars", "cars", "Car")
	hidden := types.NewNamed(
		types.NewTypeName(token.NoPos, types.NewPackage("example.com/app/cars", "cars"), "engine", nil),
		types.NewStruct(nil, nil), nil)

	t.Run("no bindings", func(t *testing.T) {
		_, err := NewGenerator(testConfig()).Generate(nil)
		assert.ErrorIs(t, err, ErrNoBindings)
	})

	t.Run("invalid artifact", func(t *testing.T) {
		cfg := testConfig()
		cfg.ArtifactName = "adapter"

		_, err := NewGenerator(cfg).Generate([]naming.Binding{binding("MapStringToCar", types.Typ[types.String], car)})
		assert.Error(t, err)
	})

	t.Run("inaccessible type", func(t *testing.T) {
		_, err := NewGenerator(testConfig()).Generate([]naming.Binding{binding("MapCarToEngine", car, hidden)})
		assert.ErrorIs(t, err, ErrInaccessible)
	})

	t.Run("runtime package", func(t *testing.T) {
		cfg := testConfig()
		cfg.PackagePath = RuntimePackage

		_, err := NewGenerator(cfg).Generate([]naming.Binding{binding("MapStringToCar", types.Typ[types.String], car)})
		assert.Error(t, err)
	})
}

func TestNewGenerator_DefaultPackageName(t *testing.T) {
	g := NewGenerator(GeneratorConfig{PackagePath: "example.com/app/conv-adapter", ArtifactName: "A"})
	assert.Equal(t, "conv_adapter", g.config.PackageName)
	assert.Equal(t, RuntimePackage, g.config.RuntimePath)
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"ConversionServiceAdapter": "conversion_service_adapter_gen.go",
		"HTTPAdapter":              "http_adapter_gen.go",
		"Adapter2Go":               "adapter_2_go_gen.go",
		"LocaleAdapter":            "locale_adapter_gen.go",
		"A":                        "a_gen.go",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Filename(in))
		})
	}
}
