package selench

import "github.com/tebeka/selenium"

// Special keyboard keys under short names, for Element.SendKeys. The full
// set lives in the collaborator package.
const (
	Enter      = selenium.EnterKey
	Return     = selenium.ReturnKey
	Tab        = selenium.TabKey
	Escape     = selenium.EscapeKey
	Space      = selenium.SpaceKey
	Backspace  = selenium.BackspaceKey
	Delete     = selenium.DeleteKey
	Shift      = selenium.ShiftKey
	Control    = selenium.ControlKey
	Alt        = selenium.AltKey
	Meta       = selenium.MetaKey
	PageUp     = selenium.PageUpKey
	PageDown   = selenium.PageDownKey
	Home       = selenium.HomeKey
	End        = selenium.EndKey
	LeftArrow  = selenium.LeftArrowKey
	UpArrow    = selenium.UpArrowKey
	RightArrow = selenium.RightArrowKey
	DownArrow  = selenium.DownArrowKey
)
