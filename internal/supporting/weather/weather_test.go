package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/agentforge/internal/worldstate"
)

func TestParseKindRecognisesEveryWireValue(t *testing.T) {
	assert.Equal(t, Rain, ParseKind("rain"))
	assert.Equal(t, Storm, ParseKind("storm"))
	assert.Equal(t, Heatwave, ParseKind("heatwave"))
	assert.Equal(t, ColdSnap, ParseKind("cold_snap"))
	assert.Equal(t, Clear, ParseKind("nonsense"))
}

func TestSetWeatherChangesThirstDecayMultiplier(t *testing.T) {
	s := New()
	assert.Equal(t, 1.0, s.ThirstDecayMultiplier())

	s.SetWeather(Heatwave)

	assert.Equal(t, 1.6, s.ThirstDecayMultiplier())
}

func TestOutdoorZoneBonusIsZeroInShelter(t *testing.T) {
	s := New()
	s.SetWeather(Storm)

	shelter := &worldstate.Zone{Type: worldstate.ZoneShelter}
	outdoor := &worldstate.Zone{Type: worldstate.ZoneFood}

	assert.Equal(t, 0.0, s.OutdoorZoneBonus(shelter))
	assert.Less(t, s.OutdoorZoneBonus(outdoor), 0.0)
}
