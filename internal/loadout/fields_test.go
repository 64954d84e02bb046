package loadout

import "testing"

func TestFieldsCoverEveryCounter(t *testing.T) {
	fields := Fields()
	if len(fields) != 20 {
		t.Fatalf("fields = %d, want 20", len(fields))
	}
	seen := make(map[string]bool)
	for _, f := range fields {
		if seen[f.Name] {
			t.Errorf("duplicate field %s", f.Name)
		}
		seen[f.Name] = true
	}
	// Skills lead the priority order, then scrap upgrades, then premium.
	if fields[0].Name != "skills.power" {
		t.Errorf("first field = %s", fields[0].Name)
	}
	if fields[5].Currency != CurrencyScrap {
		t.Errorf("field 5 currency = %s", fields[5].Currency)
	}
	if fields[len(fields)-1].Currency != CurrencyGems {
		t.Errorf("last field currency = %s", fields[len(fields)-1].Currency)
	}
}

func TestFieldGetSetRoundTrip(t *testing.T) {
	for _, f := range Fields() {
		var alloc AllocationState
		if got := f.Get(alloc); got != 0 {
			t.Errorf("%s zero value = %d", f.Name, got)
		}
		applied := f.Set(alloc, 3)
		if got := f.Get(applied); got != 3 {
			t.Errorf("%s set/get = %d, want 3", f.Name, got)
		}
		// Set must not mutate the input.
		if f.Get(alloc) != 0 {
			t.Errorf("%s mutated its input", f.Name)
		}
	}
}

func TestFieldCosts(t *testing.T) {
	byName := make(map[string]Field)
	for _, f := range Fields() {
		byName[f.Name] = f
	}
	if got := byName["skills.power"].Cost(7); got != 1 {
		t.Errorf("skill cost = %d, want flat 1", got)
	}
	if got := byName["upgrades.pickaxe"].Cost(2); got != 100 {
		t.Errorf("pickaxe level 2 = %d, want 100", got)
	}
	if got := byName["premium.frenzy_rank"].Cost(3); got != 300 {
		t.Errorf("frenzy rank 3 = %d, want 300", got)
	}
}

func TestCurrencyString(t *testing.T) {
	if CurrencySkillPoint.String() != "skill points" ||
		CurrencyScrap.String() != "scrap" ||
		CurrencyGems.String() != "gems" {
		t.Fatal("currency names changed")
	}
}
