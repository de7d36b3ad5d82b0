package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdangerx/cyclus/sim/scenario"
)

const sourceSinkDoc = `
<simulation>
  <control>
    <duration>3</duration>
    <startmonth>1</startmonth>
    <startyear>2030</startyear>
    <decay>never</decay>
  </control>
  <commodity>
    <name>fresh_fuel</name>
    <solution_priority>10</solution_priority>
  </commodity>
  <archetypes>
    <spec><name>region</name></spec>
    <spec><name>institution</name></spec>
    <spec><name>source</name></spec>
    <spec><name>sink</name></spec>
  </archetypes>
  <prototype>
    <name>USA</name>
    <config><region/></config>
  </prototype>
  <prototype>
    <name>Utility</name>
    <config><institution/></config>
  </prototype>
  <prototype>
    <name>UMine</name>
    <config>
      <source>
        <commodity>fresh_fuel</commodity>
        <recipe>nat_u</recipe>
        <throughput>2</throughput>
      </source>
    </config>
  </prototype>
  <prototype>
    <name>Reactor</name>
    <config>
      <sink>
        <commodity>fresh_fuel</commodity>
        <capacity>5</capacity>
      </sink>
    </config>
  </prototype>
  <agent><name>usa</name><prototype>USA</prototype></agent>
  <agent><name>utility</name><prototype>Utility</prototype><parent>usa</parent></agent>
  <agent><name>mine1</name><prototype>UMine</prototype><parent>utility</parent></agent>
  <agent><name>rx1</name><prototype>Reactor</prototype><parent>utility</parent></agent>
  <recipe>
    <name>nat_u</name>
    <basis>mass</basis>
    <nuclide><id>U235</id><comp>0.711</comp></nuclide>
    <nuclide><id>U238</id><comp>99.289</comp></nuclide>
  </recipe>
</simulation>`

func loadSim(t *testing.T, doc string) *Simulator {
	t.Helper()
	parsed, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	s, err := FromScenario(parsed)
	require.NoError(t, err)
	return s
}

func findSink(ctx *Context, id string) *Sink {
	for _, a := range ctx.Agents() {
		if s, ok := a.(*Sink); ok && a.ID() == id {
			return s
		}
	}
	return nil
}

func TestSimulator_SourceToSink_ThroughputLimited(t *testing.T) {
	// GIVEN a sink wanting 5/step fed by a source capped at 2/step
	s := loadSim(t, sourceSinkDoc)

	// WHEN three steps run
	require.NoError(t, s.Run())

	// THEN each step moves the source's throughput, not the sink's want
	sink := findSink(s.Ctx, "rx1")
	require.NotNil(t, sink)
	assert.InDelta(t, 6.0, sink.Inventory(), 1e-9)

	assert.Equal(t, 3, s.Metrics.Timesteps)
	assert.Equal(t, 3, s.Metrics.TotalTrades)
	assert.InDelta(t, 6.0, s.Metrics.QtyByCommodity["fresh_fuel"], 1e-9)
}

func TestSimulator_BuildsHierarchy(t *testing.T) {
	s := loadSim(t, sourceSinkDoc)
	require.NoError(t, s.Run())

	agents := s.Ctx.Agents()
	require.Len(t, agents, 4)

	byID := make(map[string]Agent)
	for _, a := range agents {
		byID[a.ID()] = a
	}
	assert.Equal(t, KindRegion, byID["usa"].Kind())
	assert.Equal(t, KindInstitution, byID["utility"].Kind())
	assert.Equal(t, byID["usa"], byID["utility"].Parent())
	assert.Equal(t, byID["utility"], byID["mine1"].Parent())

	mine := byID["mine1"].(*Source)
	assert.Equal(t, "fresh_fuel", mine.Commodity)
	assert.Equal(t, 2.0, mine.Throughput)
}

func TestSimulator_Lifetime_StopsTrading(t *testing.T) {
	// GIVEN a sink that decommissions after one step
	doc := strings.Replace(sourceSinkDoc,
		"<name>Reactor</name>\n    <config>",
		"<name>Reactor</name>\n    <lifetime>1</lifetime>\n    <config>", 1)
	require.NotEqual(t, sourceSinkDoc, doc)

	s := loadSim(t, doc)
	require.NoError(t, s.Run())

	// THEN only step 0 trades; the sink is gone before step 1
	assert.Equal(t, 1, s.Metrics.TotalTrades)
	assert.InDelta(t, 2.0, s.Metrics.TotalQuantity, 1e-9)
	assert.Nil(t, findSink(s.Ctx, "rx1"))
}

func TestSimulator_DeliveredMaterialCarriesRecipe(t *testing.T) {
	// GIVEN a one-step run with a recipe-bearing source
	parsed, err := scenario.Parse([]byte(sourceSinkDoc))
	require.NoError(t, err)
	parsed.Control.Duration = 1
	s, err := FromScenario(parsed)
	require.NoError(t, err)

	require.NoError(t, s.Run())

	// THEN the source produces material with the normalized recipe
	var mine *Source
	for _, a := range s.Ctx.Agents() {
		if src, ok := a.(*Source); ok {
			mine = src
		}
	}
	require.NotNil(t, mine)
	mat, ok := mine.produce(1).(*Material)
	require.True(t, ok)
	assert.InDelta(t, 0.00711, mat.Composition().Fraction("U235"), 1e-9)
}

func TestSimulator_NonPositiveDuration_Fails(t *testing.T) {
	s := NewSimulator(NewContext(), ControlConfig{Duration: 0})
	assert.Error(t, s.Run())
}

func TestFromScenario_UnknownArchetype_Fails(t *testing.T) {
	doc := strings.Replace(sourceSinkDoc, "<config><region/></config>",
		"<config><reprocessor/></config>", 1)

	parsed, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	_, err = FromScenario(parsed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archetype")
}

func TestFromScenario_AliasResolvesArchetype(t *testing.T) {
	doc := strings.Replace(sourceSinkDoc,
		"<spec><name>source</name></spec>",
		"<spec><name>source</name><alias>mine</alias></spec>", 1)
	doc = strings.Replace(doc, "<source>\n        <commodity>fresh_fuel</commodity>\n        <recipe>nat_u</recipe>\n        <throughput>2</throughput>\n      </source>",
		"<mine>\n        <commodity>fresh_fuel</commodity>\n        <recipe>nat_u</recipe>\n        <throughput>2</throughput>\n      </mine>", 1)
	require.NotEqual(t, sourceSinkDoc, doc)

	s := loadSim(t, doc)
	require.NoError(t, s.Run())
	assert.Equal(t, 3, s.Metrics.TotalTrades)
}
