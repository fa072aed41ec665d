package runner

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
// Every call is recorded in Calls, in order.
type MockRunner struct {
	OutputFunc func(cmd Command) (string, error)
	RunFunc    func(cmd Command) error
	Calls      []Command
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Output returns the configured stdout for cmd
func (m *MockRunner) Output(cmd Command) (string, error) {
	m.Calls = append(m.Calls, cmd)
	if m.OutputFunc != nil {
		return m.OutputFunc(cmd)
	}
	return "", nil
}

// Run runs the configured function for cmd
func (m *MockRunner) Run(cmd Command) error {
	m.Calls = append(m.Calls, cmd)
	if m.RunFunc != nil {
		return m.RunFunc(cmd)
	}
	return nil
}

// CommandLines returns the recorded calls rendered as shell command lines
func (m *MockRunner) CommandLines() []string {
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = String(c)
	}
	return lines
}

// Ensure MockRunner implements Executor interface
var _ Executor = (*MockRunner)(nil)
