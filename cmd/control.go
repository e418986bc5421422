package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	sim "github.com/inference-sim/memsim/sim"
)

const prompt = "Enter t to continue simulation (0 will exit): "

// runInteractive reads tick counts from in until 0, end of input, or a
// terminal simulation state. Each positive count is one bounded Advance.
func runInteractive(in io.Reader, out io.Writer, s *sim.Simulator) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			fmt.Fprintf(out, "Invalid tick count %q\n", text)
			continue
		}
		if n == 0 {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if err := s.Advance(n); err != nil {
			if errors.Is(err, sim.ErrFinished) {
				fmt.Fprintln(out, "Simulation has already finished.")
				return nil
			}
			return err
		}
		if s.Status() == sim.StatusCompleted {
			fmt.Fprintln(out, "All processes have finished.")
			return nil
		}
	}
}
