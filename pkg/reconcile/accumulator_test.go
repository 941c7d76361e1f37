package reconcile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/carmap/pkg/reconcile"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func TestAccumulatorMazda(t *testing.T) {
	acc := reconcile.NewAccumulator("Mazda", []string{"Protege", "Protege5", "CX-5"})

	acc.Add("PROTEGE5 4DR SEDAN", 2003)
	acc.Add("PROTEGE LX 4DR", 2001)
	acc.Add("CX-5 TOURING", 2015)

	want := map[string]vehicles.Styles{
		"Protege5": {"PROTEGE5 4DR SEDAN": {Years: vehicles.Years{2003}}},
		"Protege":  {"PROTEGE LX 4DR": {Years: vehicles.Years{2001}}},
		"CX-5":     {"CX-5 TOURING": {Years: vehicles.Years{2015}}},
	}
	assert.Empty(t, acc.Orphans())
	if diff := cmp.Diff(want, acc.Styles()); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulatorIdempotent(t *testing.T) {
	acc := reconcile.NewAccumulator("Honda", []string{"Civic"})

	acc.Record("Civic", "CIVIC LX 4DR", 2001)
	acc.Record("Civic", "CIVIC LX 4DR", 2001)

	styles := acc.Styles()
	assert.Equal(t, vehicles.Years{2001}, styles["Civic"]["CIVIC LX 4DR"].Years)
}

func TestAccumulatorMergesYearsInOrder(t *testing.T) {
	acc := reconcile.NewAccumulator("Honda", []string{"Civic"})

	for _, year := range []int{2003, 2001, 2002, 2001} {
		acc.Add("CIVIC EX 2DR", year)
	}
	acc.Add("CIVIC EX 4DR", 2002)

	styles := acc.Styles()["Civic"]
	assert.Len(t, styles, 2, "distinct labels are never merged")
	assert.Equal(t, vehicles.Years{2001, 2002, 2003}, styles["CIVIC EX 2DR"].Years)
	assert.Equal(t, vehicles.Years{2002}, styles["CIVIC EX 4DR"].Years)
}

func TestAccumulatorOrphans(t *testing.T) {
	acc := reconcile.NewAccumulator("Honda", []string{"Civic", "Accord"})

	_, ok := acc.Add("ODYSSEY EX", 1999)
	assert.False(t, ok)
	acc.Add("ODYSSEY EX", 2000)
	acc.Add("PRELUDE SI", 1998)

	assert.Equal(t, []vehicles.OrphanEntry{
		{MakeName: "Honda", StyleLabel: "ODYSSEY EX", Year: 1999},
		{MakeName: "Honda", StyleLabel: "PRELUDE SI", Year: 1998},
	}, acc.Orphans())

	report := acc.Report([]string{"Accord", "Civic"})
	assert.Equal(t, []string{"Accord", "Civic"}, report.ModelChoices)
	assert.Equal(t, []string{"ODYSSEY EX", "PRELUDE SI"}, report.OrphanedStyles)

	styles := acc.Styles()
	assert.Empty(t, styles["Civic"])
	assert.Empty(t, styles["Accord"])
}
