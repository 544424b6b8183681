package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testback-lab/testback/internal/types"
)

type ParseTestSuite struct {
	suite.Suite
}

func TestParseSuite(t *testing.T) {
	suite.Run(t, new(ParseTestSuite))
}

const strategyJSON = `{
	"name": "ma-crossover",
	"nodes": [
		{"id": "c1", "type": "condition", "indicator": "ma", "params": {"period": 10, "operator": ">", "threshold": 50}},
		{"id": "a1", "type": "action", "action": "BUY", "quantity": 100, "price_type": "market"}
	],
	"edges": [
		{"id": "e1", "source": "c1", "target": "a1"}
	]
}`

const strategyYAML = `
name: rsi-reversal
nodes:
  - id: c1
    type: condition
    indicator: rsi
  - id: a1
    type: action
    action: BUY
edges:
  - id: e1
    source: c1
    target: a1
`

func (suite *ParseTestSuite) TestParseJSON() {
	g, err := ParseJSON([]byte(strategyJSON), types.Timeframe1d)
	suite.NoError(err)
	suite.Equal("ma-crossover", g.Name)
	suite.Len(g.Nodes, 2)

	c1 := g.NodeByID("c1")
	suite.Equal(10, c1.Params.Period)
	suite.Equal(types.Timeframe1d, c1.Params.Timeframe)
}

func (suite *ParseTestSuite) TestParseYAMLAppliesDefaults() {
	g, err := ParseYAML([]byte(strategyYAML), types.Timeframe1h)
	suite.NoError(err)

	c1 := g.NodeByID("c1")
	suite.Equal(14, c1.Params.Period)
	suite.InDelta(30.0, c1.Params.Threshold, 1e-9)
	suite.Equal(types.OperatorLess, c1.Params.Operator)
	suite.Equal(types.Timeframe1h, c1.Params.Timeframe)

	a1 := g.NodeByID("a1")
	suite.Equal(types.PriceTypeMarket, a1.PriceType)
	suite.EqualValues(100, a1.Quantity)
}

func (suite *ParseTestSuite) TestParseInvalidJSON() {
	_, err := ParseJSON([]byte(`{"nodes": [`), types.Timeframe1d)
	suite.Error(err)
}

func (suite *ParseTestSuite) TestParseFileByContent() {
	dir := suite.T().TempDir()

	jsonPath := filepath.Join(dir, "strategy.json")
	suite.NoError(os.WriteFile(jsonPath, []byte(strategyJSON), 0644))

	g, err := ParseFile(jsonPath, types.Timeframe1d)
	suite.NoError(err)
	suite.Equal("ma-crossover", g.Name)

	yamlPath := filepath.Join(dir, "strategy.yaml")
	suite.NoError(os.WriteFile(yamlPath, []byte(strategyYAML), 0644))

	g, err = ParseFile(yamlPath, types.Timeframe1d)
	suite.NoError(err)
	suite.Equal("rsi-reversal", g.Name)
}

func (suite *ParseTestSuite) TestDocumentSchema() {
	schema, err := DocumentSchema()
	suite.NoError(err)
	suite.NotEmpty(schema)
	suite.Contains(schema, "nodes")
}
