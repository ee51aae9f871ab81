package analyze

import (
	"go/types"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateNames(u *Unit) []string {
	names := make([]string, 0, len(u.Candidates()))
	for _, c := range u.Candidates() {
		names = append(names, c.ID.String())
	}

	return names
}

func TestLoader_Load(t *testing.T) {
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/warehouse", "adapter-generator/store")
	require.NoError(t, err)
	require.NotNil(t, unit)

	assert.Equal(t, []string{"adapter-generator/store", "adapter-generator/warehouse"}, unit.Packages())

	// Candidates are ordered by fully-qualified name across packages
	names := candidateNames(unit)
	assert.Contains(t, names, "adapter-generator/store.OrderMapper")
	assert.Contains(t, names, "adapter-generator/store.statusParser")
	assert.Contains(t, names, "adapter-generator/warehouse.Repository")
	assert.IsIncreasing(t, names)

	for _, c := range unit.Candidates() {
		assert.True(t, c.Pos.IsValid(), "candidate %s has no position", c.ID)
	}

	require.NotNil(t, unit.Capability())
	assert.Equal(t, "Converter", unit.Capability().Obj().Name())
	assert.Equal(t, "adapter-generator/convert", unit.Capability().Obj().Pkg().Path())

	require.NotNil(t, unit.Module())
	assert.Equal(t, "adapter-generator", unit.Module().Path)
}

func TestLoader_CapabilityLoadedOnDemand(t *testing.T) {
	// examples/duplicate does not import the convert package.
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/examples/duplicate")
	require.NoError(t, err)
	require.NotNil(t, unit.Capability())
	assert.Equal(t, 2, unit.Capability().TypeParams().Len())
}

func TestLoader_InvalidCapability(t *testing.T) {
	tests := []struct {
		name       string
		capability string
	}{
		{"unqualified", "Converter"},
		{"not a type", "adapter-generator/convert.Dispatch"},
		{"not generic", "adapter-generator/convert.Dispatcher"},
		{"not an interface", "adapter-generator/convert.DispatcherRegistry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(Config{Capability: tt.capability}).Load(t.Context(), "adapter-generator/store")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCapability)
		})
	}
}

func TestLoader_NoPackages(t *testing.T) {
	_, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/does/not/exist")
	require.Error(t, err)
}

func TestUnit_Directives(t *testing.T) {
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/examples/configured")
	require.NoError(t, err)

	dirs := unit.Directives()
	require.Len(t, dirs, 5)

	assert.Equal(t, "output", dirs[0].Key)
	assert.Equal(t, []string{"adapter-generator/examples/configured/adapters"}, dirs[0].Args)
	assert.Equal(t, "artifact", dirs[1].Key)
	assert.Equal(t, "dispatcher", dirs[2].Key)
	assert.Equal(t, "external", dirs[3].Key)
	assert.Equal(t, []string{"string", "time.Duration"}, dirs[3].Args)
	assert.Equal(t, []string{"[]string", "[]adapter-generator/examples/configured.Tag"}, dirs[4].Args)

	for _, d := range dirs {
		assert.Equal(t, "adapter-generator/examples/configured", d.PkgPath)
		assert.Equal(t, "configured", d.PkgName)
		assert.Equal(t, "configured.go", filepath.Base(d.Pos.Filename))
	}

	assert.Less(t, dirs[0].Pos.Line, dirs[4].Pos.Line)
}

func TestUnit_Instances(t *testing.T) {
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/examples/generic")
	require.NoError(t, err)

	byName := map[string]Candidate{}
	for _, c := range unit.Candidates() {
		byName[c.ID.Name] = c
	}

	lister := byName["Lister"]
	require.NotNil(t, lister.Obj)

	var concrete []string

	for _, inst := range unit.Instances(lister.Obj) {
		named, ok := inst.(*types.Named)
		require.True(t, ok)

		if named.TypeArgs().At(0).String() == "X" {
			continue
		}

		concrete = append(concrete, QualifiedString(inst))
	}

	assert.Equal(t, []string{
		"adapter-generator/examples/generic.Lister[int]",
		"adapter-generator/examples/generic.Lister[string]",
	}, concrete)

	assert.Empty(t, unit.Instances(byName["Thermometer"].Obj))
}

func TestUnit_LookupType(t *testing.T) {
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/examples/configured", "adapter-generator/examples/generic")
	require.NoError(t, err)

	tests := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{expr: "string", want: "string"},
		{expr: "time.Duration", want: "time.Duration"},
		{expr: "adapter-generator/examples/configured.Tag", want: "adapter-generator/examples/configured.Tag"},
		{expr: "configured.Tag", want: "adapter-generator/examples/configured.Tag"},
		{expr: "*configured.Ticket", want: "*adapter-generator/examples/configured.Ticket"},
		{expr: "[]configured.Tag", want: "[]adapter-generator/examples/configured.Tag"},
		{expr: "", wantErr: true},
		{expr: "nosuchtype", wantErr: true},
		{expr: "configured.Missing", wantErr: true},
		{expr: "net/http.Client", wantErr: true},
		{expr: "generic.Box", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := unit.LookupType(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownType)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, QualifiedString(got))
		})
	}
}

func TestUnit_Placement(t *testing.T) {
	unit, err := NewLoader(Config{}).Load(t.Context(), "adapter-generator/store")
	require.NoError(t, err)

	moduleDir := unit.Module().Dir

	t.Run("loaded package", func(t *testing.T) {
		pl, err := unit.Placement("adapter-generator/store")
		require.NoError(t, err)
		assert.Equal(t, "store", pl.PkgName)
		assert.Equal(t, filepath.Join(moduleDir, "store"), pl.Dir)
	})

	t.Run("new package in module", func(t *testing.T) {
		pl, err := unit.Placement("adapter-generator/internal/adapters")
		require.NoError(t, err)
		assert.Equal(t, "adapter-generator/internal/adapters", pl.PkgPath)
		assert.Equal(t, "adapters", pl.PkgName)
		assert.Equal(t, filepath.Join(moduleDir, "internal", "adapters"), pl.Dir)
	})

	t.Run("module relative", func(t *testing.T) {
		pl, err := unit.Placement("convadapter")
		require.NoError(t, err)
		assert.Equal(t, "adapter-generator/convadapter", pl.PkgPath)
		assert.Equal(t, filepath.Join(moduleDir, "convadapter"), pl.Dir)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := unit.Placement("../outside")
		assert.ErrorIs(t, err, ErrPlacement)
	})
}
