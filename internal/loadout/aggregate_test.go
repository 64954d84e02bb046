package loadout

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAggregateDeterministic(t *testing.T) {
	alloc := AllocationState{
		Skills:   SkillPoints{Power: 7, Endurance: 3, Precision: 12, Tempo: 4, Fortune: 9},
		Upgrades: UpgradeLevels{Pickaxe: 5, DrillBit: 3, Canteen: 2, HelmetLamp: 4, Satchel: 1},
		Premium:  PremiumLevels{Might: 2, CritDamage: 3, Piercing: 2, Scholar: 1, Shatter: 4, FrenzyRank: 2},
		Charms:   []Charm{{Name: "lucky tooth", Damage: 1.5, LootModChance: 0.04}},
	}
	a := Aggregate(alloc)
	b := Aggregate(alloc)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregate not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestBaselineValues(t *testing.T) {
	b := Baseline()
	if b.Damage != 10 {
		t.Errorf("baseline damage = %v, want 10", b.Damage)
	}
	if b.MaxStamina != 100 {
		t.Errorf("baseline stamina = %v, want 100", b.MaxStamina)
	}
	if b.CritChance != 0 {
		t.Errorf("baseline crit chance = %v, want 0", b.CritChance)
	}
	if b.HitsPerSecond != 2 {
		t.Errorf("baseline cadence = %v, want 2", b.HitsPerSecond)
	}
	if b.Abilities.Frenzy.IntervalSec != 0 {
		t.Errorf("frenzy should be locked at rank 0")
	}
}

func TestArmorPenRoundsBeforeScaling(t *testing.T) {
	alloc := AllocationState{
		Upgrades: UpgradeLevels{DrillBit: 1}, // flat 1.5, rounds to 2
		Premium:  PremiumLevels{Piercing: 1}, // then +5%
	}
	b := Aggregate(alloc)
	want := 2 * 1.05
	if math.Abs(b.ArmorPen-want) > 1e-12 {
		t.Fatalf("armor pen = %v, want %v (round before multiply)", b.ArmorPen, want)
	}
}

func TestCritDamageSourcesAddInsideOneMultiplier(t *testing.T) {
	alloc := AllocationState{
		Premium: PremiumLevels{CritDamage: 2}, // +20%
		Charms:  []Charm{{Name: "whetstone", CritDamagePct: 0.10}},
	}
	b := Aggregate(alloc)
	want := 1.5 * (1 + 0.20 + 0.10)
	if math.Abs(b.CritDamage-want) > 1e-12 {
		t.Fatalf("crit damage = %v, want %v (percent sources add, not chain)", b.CritDamage, want)
	}
}

func TestModChancesClamped(t *testing.T) {
	alloc := AllocationState{
		Skills:   SkillPoints{Fortune: 50},
		Upgrades: UpgradeLevels{Satchel: 10},
		Charms:   []Charm{{Name: "greedy idol", LootModChance: 0.9}},
	}
	b := Aggregate(alloc)
	if b.Mods.Loot.Chance != 1 {
		t.Fatalf("loot mod chance = %v, want clamped to 1", b.Mods.Loot.Chance)
	}
	for _, m := range []Mod{b.Mods.Experience, b.Mods.Loot, b.Mods.Speed, b.Mods.Stamina} {
		if m.Chance < 0 || m.Chance > 1 {
			t.Fatalf("mod chance %v outside [0,1]", m.Chance)
		}
	}
}

func TestValidateRejectsOverCap(t *testing.T) {
	alloc := AllocationState{Upgrades: UpgradeLevels{Pickaxe: 21}}
	err := Validate(alloc)
	var capErr *CapError
	if !errors.As(err, &capErr) {
		t.Fatalf("want *CapError, got %v", err)
	}
	if capErr.Field != "upgrades.pickaxe" {
		t.Errorf("cap error field = %s", capErr.Field)
	}

	// The cap upgrade raises the ceiling.
	alloc.Upgrades.PickaxeCap = 1
	if err := Validate(alloc); err != nil {
		t.Fatalf("level 21 with cap upgrade should validate: %v", err)
	}
}

func TestValidateRejectsNegative(t *testing.T) {
	alloc := AllocationState{Skills: SkillPoints{Power: -1}}
	var capErr *CapError
	if !errors.As(Validate(alloc), &capErr) {
		t.Fatal("negative level must be rejected")
	}
}

func TestValidateRejectsNegativeCharmStats(t *testing.T) {
	cases := []Charm{
		{Name: "cursed idol", Stamina: -500},
		{Name: "cursed idol", DamagePct: -3},
		{Name: "cursed idol", Damage: -1},
		{Name: "cursed idol", ArmorPen: -2},
		{Name: "cursed idol", CritDamagePct: -0.5},
	}
	for _, charm := range cases {
		if err := Validate(AllocationState{Charms: []Charm{charm}}); err == nil {
			t.Errorf("charm %+v accepted", charm)
		}
	}
	if err := Validate(AllocationState{Charms: []Charm{{Name: "plain", Damage: 2}}}); err != nil {
		t.Errorf("non-negative charm rejected: %v", err)
	}
}

func TestAggregateFloorsNegativeContributions(t *testing.T) {
	// Even for an allocation that skipped Validate, the bundle must not
	// carry negative multiplicative fields into the simulator.
	b := Aggregate(AllocationState{Charms: []Charm{{Stamina: -500, DamagePct: -3}}})
	if b.MaxStamina != 0 {
		t.Errorf("max stamina = %v, want floored to 0", b.MaxStamina)
	}
	if b.DamagePct != 0 {
		t.Errorf("damage pct = %v, want floored to 0", b.DamagePct)
	}
	if b.TotalDamage() < 0 {
		t.Errorf("total damage = %v, want >= 0", b.TotalDamage())
	}
}

func TestAllocationRoundTrip(t *testing.T) {
	alloc := AllocationState{
		Skills:   SkillPoints{Power: 3, Precision: 8},
		Upgrades: UpgradeLevels{Pickaxe: 4, DrillBit: 2, PickaxeCap: 1},
		Premium:  PremiumLevels{CritDamage: 2, ShockwaveRank: 1},
		Charms:   []Charm{{Name: "old compass", ArmorPen: 2, SpeedModChance: 0.03}},
	}
	data, err := yaml.Marshal(alloc)
	if err != nil {
		t.Fatal(err)
	}
	var decoded AllocationState
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Aggregate(alloc), Aggregate(decoded)) {
		t.Fatal("round-tripped allocation aggregates to a different bundle")
	}
}
