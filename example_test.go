package selench_test

import (
	"fmt"

	"github.com/wanmail/selench"
)

// This example searches DuckDuckGo and waits for the results page.
//
// If you want to actually run this example:
//
//  1. Download ChromeDriver (go run ./cmd/selench-fetch) or adjust
//     DriverPath to a binary you already have.
//  2. Remove the word "Example" from the comment at the bottom of the
//     function.
//  3. Run:
//     go test -test.run=Example$ github.com/wanmail/selench
func Example() {
	d, err := selench.New(selench.Config{
		Browser:    selench.Chrome,
		DriverPath: "testdata/deps/chromedriver",
		Headless:   true,
	})
	if err != nil {
		panic(err) // panic is used only as an example and is not otherwise recommended.
	}
	defer d.Quit()

	if err := d.Get("https://duckduckgo.com"); err != nil {
		panic(err)
	}

	// The string is classified as a CSS selector; the lookup waits for the
	// input to be present.
	input, err := d.Element(`input[name="q"]`)
	if err != nil {
		panic(err)
	}
	if err := input.SendKeys("Hello World!", selench.Enter); err != nil {
		panic(err)
	}

	// Synchronize with the results page.
	if err := d.Expect().TitleContains("Hello World!"); err != nil {
		panic(err)
	}

	// "//a" is classified as an XPath selector.
	links, err := d.Elements("//a")
	if err != nil {
		panic(err)
	}
	fmt.Printf("found %d links\n", len(links))

	// Example Output:
	// found 42 links
}
