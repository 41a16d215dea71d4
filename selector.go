package selench

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// Selector is a classified locator: a selector string tagged with the
// location strategy to use for it.
type Selector struct {
	// By is the location strategy, one of selenium.ByCSSSelector and
	// selenium.ByXPATH.
	By    string
	Value string
}

func (s Selector) String() string {
	return fmt.Sprintf("%s %q", s.By, s.Value)
}

// CSS returns a Selector that locates by CSS, bypassing detection.
func CSS(value string) Selector {
	return Selector{By: selenium.ByCSSSelector, Value: value}
}

// XPath returns a Selector that locates by XPath, bypassing detection.
func XPath(value string) Selector {
	return Selector{By: selenium.ByXPATH, Value: value}
}

// DetectSelector classifies a selector string as CSS or XPath. Strings that
// can only be XPath expressions, those starting with "/", "//", "./", ".."
// or "(", select XPath location; everything else selects CSS location.
func DetectSelector(value string) Selector {
	for _, prefix := range []string{"//", "/", "./", "..", "("} {
		if strings.HasPrefix(value, prefix) {
			return XPath(value)
		}
	}
	return CSS(value)
}
