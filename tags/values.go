package tags

import "github.com/viant/parsly"

// Values represents coma separated key[=value] elements
type Values string

// MatchPairs match pairs separated by ,
func (v Values) MatchPairs(onMatch func(key, value string) error) error {
	cursor := parsly.NewCursor("", []byte(v), 0)
	for cursor.Pos < len(cursor.Input) {
		key, value := matchPair(cursor)
		if key == "" {
			continue
		}
		if err := onMatch(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Pairs returns matched pairs in declaration order
func (v Values) Pairs() ([][2]string, error) {
	var result [][2]string
	err := v.MatchPairs(func(key, value string) error {
		result = append(result, [2]string{key, value})
		return nil
	})
	return result, err
}
