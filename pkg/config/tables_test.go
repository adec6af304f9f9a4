package config

import "testing"

func TestDefaultTablesValidate(t *testing.T) {
	tables := DefaultTables()
	if err := tables.Validate(); err != nil {
		t.Fatalf("built-in tables must validate: %v", err)
	}
}

func TestValidateEmptyTaxonomy(t *testing.T) {
	tables := DefaultTables()
	tables.Taxonomy = nil
	if err := tables.Validate(); err == nil {
		t.Fatalf("expected error for empty taxonomy")
	}
}

func TestValidateBaseImpactRange(t *testing.T) {
	tables := DefaultTables()
	tables.Taxonomy[0].BaseImpact = 11
	if err := tables.Validate(); err == nil {
		t.Fatalf("expected error for base_impact out of range")
	}
}

func TestValidatePriorityBandsDescending(t *testing.T) {
	tables := DefaultTables()
	tables.Priority = []PriorityBand{
		{Level: "HIGH", Min: 60},
		{Level: "CRITICAL", Min: 80},
		{Level: "NOISE", Min: 0},
	}
	if err := tables.Validate(); err == nil {
		t.Fatalf("expected error for non-descending bands")
	}
}

func TestValidateLowestBandAtZero(t *testing.T) {
	tables := DefaultTables()
	tables.Priority = []PriorityBand{
		{Level: "CRITICAL", Min: 80},
		{Level: "LOW", Min: 20},
	}
	if err := tables.Validate(); err == nil {
		t.Fatalf("expected error when no band starts at 0")
	}
}

func TestValidateSourceTierRange(t *testing.T) {
	tables := DefaultTables()
	tables.SourceTiers["bad_source"] = 1.5
	if err := tables.Validate(); err == nil {
		t.Fatalf("expected error for tier above 1")
	}
}
