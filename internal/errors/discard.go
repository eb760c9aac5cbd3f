package errors

// discard drops every message.
type discard struct{}

func (discard) Error(string)   {}
func (discard) Warning(string) {}
func (discard) Info(string)    {}
func (discard) Success(string) {}

// Discard is an ErrorHandler that shows nothing.
var Discard ErrorHandler = discard{}
