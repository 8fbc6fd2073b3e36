package main

import "fmt"

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	p := *deps.Pipeline
	if c.NoMath {
		p.Rewriter = nil
	}

	if err := p.AppendFile(c.Input, c.Output); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Appended %s to %s\n", c.Input, c.Output)
	return nil
}
