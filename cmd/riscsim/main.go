// Command riscsim is the interactive shell around the RISC-V core:
// it loads a program image, then dispatches sim/run/rdump/mdump/input/
// reset/print/quit commands against a single *sim.Simulator.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bassosimone/riscsim/internal/config"
	"github.com/bassosimone/riscsim/internal/disasm"
	"github.com/bassosimone/riscsim/internal/memory"
	"github.com/bassosimone/riscsim/internal/sim"
)

func main() {
	log.SetFlags(0)

	var (
		filename   string
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "riscsim",
		Short: "RISC-V 32-bit instruction-set simulator and disassembler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filename == "" {
				return fmt.Errorf("riscsim: -f/--file is required")
			}
			return runShell(filename, configPath, verbose)
		},
	}
	root.Flags().StringVarP(&filename, "file", "f", "", "program file to load (one hex word per line)")
	root.Flags().StringVarP(&configPath, "config", "c", "", "optional TOML file overriding memory region bounds")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each loaded word as it is written into memory")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runShell(filename, configPath string, verbose bool) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}
	machine := sim.NewWithMap(memory.NewMapFromRegions(cfg.Regions()))

	if err := loadProgram(machine, filename, verbose); err != nil {
		return err
	}

	fmt.Printf("Program loaded into memory.\n%d words written into memory.\n\n", machine.ProgramWords())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("RISCV-SIM:> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if dispatch(machine, filename, fields) {
			return nil
		}
	}
}

// dispatch runs one shell command against machine. It returns true when
// the shell should terminate (quit/q).
func dispatch(machine *sim.Simulator, filename string, fields []string) bool {
	switch strings.ToLower(fields[0]) {
	case "sim", "s":
		if alreadyStopped := machine.RunAll(); alreadyStopped {
			fmt.Println("Simulation Stopped.")
		} else {
			fmt.Println("Simulation Finished.")
		}
	case "run", "r":
		n := 0
		if len(fields) >= 2 {
			n, _ = strconv.Atoi(fields[1])
		}
		executed, alreadyStopped := machine.Run(n)
		if alreadyStopped {
			fmt.Println("Simulation Stopped.")
		} else {
			fmt.Printf("Ran %d cycle(s).\n", executed)
		}
	case "rdump":
		printRegisterDump(machine)
	case "mdump":
		if len(fields) < 3 {
			fmt.Println("usage: mdump <start> <stop>")
			break
		}
		start, err1 := strconv.ParseUint(fields[1], 0, 32)
		stop, err2 := strconv.ParseUint(fields[2], 0, 32)
		if err1 != nil || err2 != nil {
			fmt.Println("usage: mdump <start> <stop>")
			break
		}
		printMemoryDump(machine, uint32(start), uint32(stop))
	case "input", "i":
		if len(fields) < 3 {
			fmt.Println("usage: input <reg> <val>")
			break
		}
		reg, err1 := strconv.Atoi(fields[1])
		val, err2 := strconv.ParseInt(fields[2], 0, 64)
		if err1 != nil || err2 != nil {
			fmt.Println("usage: input <reg> <val>")
			break
		}
		if err := machine.Input(reg, uint32(val)); err != nil {
			fmt.Println(err)
		}
	case "reset":
		machine.Reset()
		fmt.Println("Simulator reset.")
	case "print", "p":
		for _, line := range machine.DisassembleProgram(machine.ProgramWords(), disasm.Format) {
			fmt.Println(line)
		}
	case "?":
		printHelp()
	case "quit", "q":
		fmt.Println("Exiting RISCV-SIM! Good Bye...")
		return true
	default:
		fmt.Println("Invalid Command.")
	}
	return false
}

func loadProgram(machine *sim.Simulator, filename string, verbose bool) error {
	fp, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("riscsim: cannot open program file %s: %w", filename, err)
	}
	defer fp.Close()
	var onWord func(addr, word uint32)
	if verbose {
		onWord = func(addr, word uint32) {
			log.Printf("writing 0x%08x into address 0x%08x (%d)", word, addr, addr)
		}
	}
	return machine.Load(fp, onWord)
}

func printRegisterDump(machine *sim.Simulator) {
	d := machine.Dump()
	fmt.Println("-------------------------------------")
	fmt.Println("Dumping Register Content")
	fmt.Println("-------------------------------------")
	fmt.Printf("# Instructions Executed\t: %d\n", d.InstructionCount)
	fmt.Printf("PC\t: 0x%08x\n", d.PC)
	fmt.Println("-------------------------------------")
	fmt.Println("[Register]\t[Value]")
	fmt.Println("-------------------------------------")
	for i, v := range d.Regs {
		fmt.Printf("[x%d]\t: 0x%08x\n", i, v)
	}
	fmt.Println("-------------------------------------")
}

func printMemoryDump(machine *sim.Simulator, start, stop uint32) {
	fmt.Println("-------------------------------------------------------------")
	fmt.Printf("Memory content [0x%08x..0x%08x] :\n", start, stop)
	fmt.Println("-------------------------------------------------------------")
	fmt.Println("\t[Address in Hex (Dec)]\t[Value]")
	for _, w := range machine.DumpMemory(start, stop) {
		fmt.Printf("\t0x%08x (%d) :\t0x%08x\n", w.Addr, w.Addr, w.Value)
	}
}

func printHelp() {
	fmt.Println("------------------------------------------------------------------")
	fmt.Println("sim\t-- simulate program to completion")
	fmt.Println("run <n>\t-- simulate program for <n> instructions")
	fmt.Println("rdump\t-- dump register values")
	fmt.Println("reset\t-- clears all registers/memory and re-loads the program")
	fmt.Println("input <reg> <val>\t-- set register <reg> to <val>")
	fmt.Println("mdump <start> <stop>\t-- dump memory from <start> to <stop> address")
	fmt.Println("print\t-- print the program loaded into memory")
	fmt.Println("?\t-- display help menu")
	fmt.Println("quit\t-- exit the simulator")
	fmt.Println("------------------------------------------------------------------")
}
