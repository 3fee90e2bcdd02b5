package tags

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

// TagName defines member mapping tag name
const TagName = "dynval"

// Member represents member mapping tag
type Member struct {
	Name       string
	Ignore     bool
	Required   bool
	TimeLayout string
}

func (m *Member) update(key, value string) error {
	switch strings.ToLower(key) {
	case "-", "ignore", "transient":
		m.Ignore = true
	case "name":
		m.Name = value
	case "required":
		m.Required = value == "" || strings.EqualFold(value, "true")
	case "timelayout":
		m.TimeLayout = value
	case "dateformat":
		m.TimeLayout = ftime.DateFormatToTimeLayout(value)
	default:
		if value != "" || m.Name != "" {
			return fmt.Errorf("unsupported %v tag key: %v", TagName, key)
		}
		m.Name = key
	}
	return nil
}

// ParseMember parses member tag, format tag (tagly) is used as a fallback for name, ignore and time layout
func ParseMember(tag reflect.StructTag) (*Member, error) {
	ret := &Member{}
	if aFormat, err := format.Parse(tag); err == nil && aFormat != nil {
		ret.Name = aFormat.Name
		ret.Ignore = aFormat.Ignore
		ret.TimeLayout = aFormat.TimeLayout
		if ret.TimeLayout == "" && aFormat.DateFormat != "" {
			ret.TimeLayout = ftime.DateFormatToTimeLayout(aFormat.DateFormat)
		}
	}
	encoded, ok := tag.Lookup(TagName)
	if !ok {
		return ret, nil
	}
	if encoded == "-" {
		ret.Ignore = true
		return ret, nil
	}
	err := Values(encoded).MatchPairs(ret.update)
	return ret, err
}
