package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler adds --cpu-profile, --mem-profile and --timing to a command tree.
type CobraProfiler struct {
	cpuFile *os.File
	cpuPath string
	memPath string
	timing  bool
}

// NewCobraProfiler creates a profiler with all outputs disabled.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags registers the persistent profiling flags on cmd.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuPath, "cpu-profile", "", "Write a CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memPath, "mem-profile", "", "Write a heap profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")
	cmd.PersistentFlags().Lookup("cpu-profile").Hidden = true
	cmd.PersistentFlags().Lookup("mem-profile").Hidden = true
}

// PreRun starts the requested profiles. Use it as PersistentPreRunE.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}
	if p.cpuPath == "" {
		return nil
	}
	f, err := os.Create(p.cpuPath)
	if err != nil {
		return fmt.Errorf("create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

// PostRun writes the profiles and the timing summary to cmd's stderr.
// Use it as PersistentPostRun.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	w := cmd.ErrOrStderr()
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
		fmt.Fprintf(w, "CPU profile written to %s\n", p.cpuPath)
	}
	if p.memPath != "" {
		if err := writeHeapProfile(p.memPath); err != nil {
			fmt.Fprintf(w, "heap profile: %v\n", err)
		} else {
			fmt.Fprintf(w, "Heap profile written to %s\n", p.memPath)
		}
	}
	if p.timing {
		Summarize(w)
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
