package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnover_OccursOn(t *testing.T) {
	turnover := Turnover{CheckIn: "2026-10-19", CheckOut: "2026-10-21"}

	assert.True(t, turnover.OccursOn("2026-10-19"))
	assert.True(t, turnover.OccursOn("2026-10-21"))
	assert.False(t, turnover.OccursOn("2026-10-20"), "days between check-in and check-out are not turnovers")
	assert.False(t, turnover.OccursOn(""))
	assert.False(t, Turnover{}.OccursOn(""), "empty dates never match")
}

func TestFilterByDate(t *testing.T) {
	first := &Turnover{Property: "Benjamin", CheckIn: "2026-10-19"}
	second := &Turnover{Property: "Marbella", CheckIn: "2026-10-18", CheckOut: "2026-10-19"}
	third := &Turnover{Property: "Mar azul", CheckIn: "2026-10-20"}
	turnovers := []*Turnover{first, second, third}

	today := FilterByDate(turnovers, "2026-10-19")
	assert.Equal(t, []*Turnover{first, second}, today)

	assert.Empty(t, FilterByDate(turnovers, "2026-10-25"))
	assert.NotNil(t, FilterByDate(nil, "2026-10-19"))
}

func TestNormalizeExtras(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		expected []string
	}{
		{"empty", nil, []string{}},
		{"catalog order", []string{"Papel", "Agua"}, []string{"Agua", "Papel"}},
		{"duplicates dropped", []string{"Vino", "Vino"}, []string{"Vino"}},
		{"unknown kept last", []string{"Cava", "Agua", "Cava"}, []string{"Agua", "Cava"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeExtras(tt.selected))
		})
	}
}

func TestTurnover_WorkerName(t *testing.T) {
	assert.Equal(t, "", Turnover{}.WorkerName())

	worker := "Rosa"
	assert.Equal(t, "Rosa", Turnover{Worker: &worker}.WorkerName())
}

func TestBaseUUIDModel_BeforeCreate(t *testing.T) {
	var model BaseUUIDModel
	require.NoError(t, model.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, model.ID)
	assert.Equal(t, uuid.Version(7), model.ID.Version())

	existing := uuid.New()
	model = BaseUUIDModel{ID: existing}
	require.NoError(t, model.BeforeCreate(nil))
	assert.Equal(t, existing, model.ID, "assigned identifiers are never replaced")
}

func TestCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Len(t, catalog.Properties, 15)
	assert.Equal(t, []string{"Rosa", "Nicole", "Joan"}, catalog.Workers)
	assert.Equal(t, []string{"Agua", "Vino", "Papel"}, catalog.Extras)

	catalog.Workers[0] = "Changed"
	assert.Equal(t, "Rosa", Workers[0], "catalog copies do not alias the package lists")

	assert.True(t, IsProperty("La perla A11"))
	assert.False(t, IsProperty("La perla"))
	assert.True(t, IsWorker("Joan"))
	assert.False(t, IsExtra("Cava"))
}
