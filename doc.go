/*
Package selench provides a concise facade over the Selenium WebDriver client
(github.com/tebeka/selenium).

The facade keeps the collaborator's semantics but shortens the surface:
selectors are plain strings classified as CSS or XPath automatically, every
lookup waits for the element with a configurable default timeout, and the
driver service lifecycle is handled by construction and Quit.

Example usage:

	package main

	import (
		"fmt"

		"github.com/wanmail/selench"
	)

	// Errors are ignored for brevity.

	func main() {
		d, _ := selench.New(selench.Config{
			Browser:    selench.Chrome,
			DriverPath: "vendor/chromedriver",
			Headless:   true,
		})
		defer d.Quit()

		d.Get("https://duckduckgo.com")

		// "#search_form_input_homepage" starts with neither "/" nor "//",
		// so it is located as a CSS selector.
		input, _ := d.Element("#search_form_input_homepage")
		input.SendKeys("Hello World!", selench.Enter)

		// "//a" is located as an XPath selector.
		links, _ := d.Elements("//a")
		fmt.Println(len(links))
	}

All calls are synchronous and block the calling goroutine. A Driver and the
elements it returns are not safe for concurrent use.
*/
package selench
