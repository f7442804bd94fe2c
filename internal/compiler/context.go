package compiler

import "slices"

type typeKey struct {
	module string
	name   string
}

// backtrace is the ordered set of types being compiled on the current call
// chain, outermost first.
type backtrace []typeKey

func (b backtrace) contains(k typeKey) bool {
	return slices.Contains(b, k)
}

// push returns a backtrace extended by k without modifying b.
func (b backtrace) push(k typeKey) backtrace {
	return append(b[:len(b):len(b)], k)
}

// compileContext is threaded through every recursive compile call.
type compileContext struct {
	module    string
	backtrace backtrace
}

func (c compileContext) enter(k typeKey) compileContext {
	return compileContext{module: k.module, backtrace: c.backtrace.push(k)}
}
