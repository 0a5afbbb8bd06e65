package koi

// destroyStack collects teardown functions during construction and runs
// them in reverse push order on shutdown, so resources are always
// destroyed in strict reverse-creation order.
type destroyStack struct {
	names []string
	fns   []func()
}

func (s *destroyStack) push(name string, fn func()) {
	s.names = append(s.names, name)
	s.fns = append(s.fns, fn)
}

// run pops and executes every teardown function, newest first, and
// leaves the stack empty. Safe to call more than once.
func (s *destroyStack) run() {
	for i := len(s.fns) - 1; i >= 0; i-- {
		Logger().Debug("destroying", "resource", s.names[i])
		s.fns[i]()
	}
	s.names = nil
	s.fns = nil
}
