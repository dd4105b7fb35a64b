package view

import "fmt"

// Unavailable paints the "module not available" placeholder.
func Unavailable(target Target, name string, err error) {
	target.Reset("Module not available")
	if name == "" {
		target.Write("This view is not available.\n")
	} else {
		target.Write(fmt.Sprintf("The %s view is not available in this build.\n", name))
	}
	if err != nil {
		target.Write(fmt.Sprintf("\n_%v_\n", err))
	}
}

// Failure paints the placeholder shown when a renderer fails.
func Failure(target Target, name string, err error) {
	target.Reset("Something went wrong")
	target.Write(fmt.Sprintf("The %s view could not be displayed.\n", name))
	if err != nil {
		target.Write(fmt.Sprintf("\n_%v_\n", err))
	}
}
