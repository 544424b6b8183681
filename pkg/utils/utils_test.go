package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfig() {
	type sampleConfig struct {
		InitialCapital float64 `json:"initial_capital" jsonschema:"minimum=0"`
		Symbol         string  `json:"symbol"`
	}

	schema, err := GetSchemaFromConfig(sampleConfig{})
	suite.NoError(err)
	suite.NotEmpty(schema)

	var result map[string]interface{}
	suite.NoError(json.Unmarshal([]byte(schema), &result))
	suite.Contains(result, "$schema")
}
