package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_MatchPairs(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      map[string]string
	}{
		{
			description: "mixed",
			input:       ",required,name=Id",
			expect: map[string]string{
				"required": "",
				"name":     "Id",
			},
		},
		{
			description: "alias table",
			input:       "p=github.com/acme/model.Person, n=github.com/acme/model.Node",
			expect: map[string]string{
				"p": "github.com/acme/model.Person",
				"n": "github.com/acme/model.Node",
			},
		},
		{
			description: "block value with coma",
			input:       "layout={2006-01-02, 15:04},name=x",
			expect: map[string]string{
				"layout": "2006-01-02, 15:04",
				"name":   "x",
			},
		},
		{
			description: "quoted value",
			input:       "sep=',',flag",
			expect: map[string]string{
				"sep":  ",",
				"flag": "",
			},
		},
	}
	for _, testCase := range testCases {
		values := Values(testCase.input)
		actual := map[string]string{}
		err := values.MatchPairs(func(key, value string) error {
			actual[key] = value
			return nil
		})
		assert.Nil(t, err)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestValues_Pairs(t *testing.T) {
	pairs, err := Values("b=2,a=1").Pairs()
	assert.Nil(t, err)
	assert.EqualValues(t, [][2]string{{"b", "2"}, {"a", "1"}}, pairs)
}
