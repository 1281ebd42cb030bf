package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"gofeeder/host/config"
	"gofeeder/host/serial"
)

var (
	device  = flag.String("device", "", "Serial device path (overrides config)")
	cfgPath = flag.String("config", "feeder.yaml", "Console configuration file")
	raw     = flag.Bool("raw", false, "Send input verbatim, no command translation")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Serial.Port = *device
	}

	fmt.Printf("Feeder Console - connecting to %s...\n", cfg.Serial.Port)
	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Port,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: 100,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()
	fmt.Println("Connected. Type 'help' for commands, 'quit' to exit.")

	// Board output is printed as it arrives, independent of the prompt.
	go pumpDeviceOutput(port, cfg.Console.ShowWire)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if line == "help" {
			printHelp(cfg)
			continue
		}

		wire := line
		if !*raw {
			wire, err = translate(line, cfg)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
		}
		if _, err := port.Write([]byte(wire + "\n")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write failed: %v\n", err)
			break
		}
	}
}

func pumpDeviceOutput(port serial.Port, showWire bool) {
	reader := bufio.NewReader(port)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if showWire {
				fmt.Printf("<< %s\n", line)
			} else {
				fmt.Println(line)
			}
		}
		if err != nil {
			// Timeout reads come back as errors on some platforms; keep
			// pumping until the port actually disappears.
			continue
		}
	}
}

// translate turns friendly console phrasing into wire commands. Anything
// not recognized is passed through untouched so the full protocol stays
// reachable.
func translate(line string, cfg *config.Config) (string, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return line, nil
	}

	switch strings.ToLower(tokens[0]) {
	case "feed":
		if len(tokens) < 2 {
			return "", fmt.Errorf("usage: feed <kg|small|medium|large>")
		}
		switch strings.ToLower(tokens[1]) {
		case "small":
			return fmt.Sprintf("FEED:%.3f", cfg.Feeding.Small), nil
		case "medium":
			return fmt.Sprintf("FEED:%.3f", cfg.Feeding.Medium), nil
		case "large":
			return fmt.Sprintf("FEED:%.3f", cfg.Feeding.Large), nil
		}
		kg, err := strconv.ParseFloat(tokens[1], 32)
		if err != nil {
			return "", fmt.Errorf("bad amount %q", tokens[1])
		}
		return fmt.Sprintf("FEED:%.3f", kg), nil

	case "fan":
		return onOffCommand(tokens, "R:1", "R:2")
	case "led":
		return onOffCommand(tokens, "R:3", "R:4")
	case "blower":
		return onOffCommand(tokens, "B:1", "B:0")
	case "auger":
		if len(tokens) < 2 {
			return "", fmt.Errorf("usage: auger <forward|backward|stop> [seconds]")
		}
		if len(tokens) == 3 {
			return "MOTOR:auger:" + strings.ToLower(tokens[1]) + ":" + tokens[2], nil
		}
		switch strings.ToLower(tokens[1]) {
		case "forward":
			return "G:1", nil
		case "backward":
			return "G:2", nil
		case "stop":
			return "G:0", nil
		}
		return "", fmt.Errorf("unknown auger action %q", tokens[1])

	case "lid":
		if len(tokens) < 2 {
			return "", fmt.Errorf("usage: lid <open|close|stop> [seconds]")
		}
		switch strings.ToLower(tokens[1]) {
		case "open":
			if len(tokens) == 3 {
				return "U:" + tokens[2], nil
			}
			return "A:1", nil
		case "close":
			if len(tokens) == 3 {
				return "D:" + tokens[2], nil
			}
			return "A:2", nil
		case "stop":
			return "A:0", nil
		}
		return "", fmt.Errorf("unknown lid action %q", tokens[1])

	case "tare":
		return "TARE", nil
	case "calibrate":
		if len(tokens) != 2 {
			return "", fmt.Errorf("usage: calibrate <known-kg>")
		}
		return "CAL:weight:" + tokens[1], nil
	case "status":
		return "STATUS", nil
	case "stop":
		return "G:0;A:0;B:0", nil
	}

	return line, nil
}

func onOffCommand(tokens []string, on, off string) (string, error) {
	if len(tokens) != 2 {
		return "", fmt.Errorf("usage: %s <on|off>", tokens[0])
	}
	switch strings.ToLower(tokens[1]) {
	case "on":
		return on, nil
	case "off":
		return off, nil
	}
	return "", fmt.Errorf("expected on or off, got %q", tokens[1])
}

func printHelp(cfg *config.Config) {
	fmt.Println("Console commands (anything else is sent verbatim):")
	fmt.Println("  feed <kg|small|medium|large>   start a weight-based feed")
	fmt.Printf("      small=%.3fkg medium=%.3fkg large=%.3fkg\n",
		cfg.Feeding.Small, cfg.Feeding.Medium, cfg.Feeding.Large)
	fmt.Println("  auger <forward|backward|stop> [sec]")
	fmt.Println("  lid <open|close|stop> [sec]")
	fmt.Println("  blower <on|off>")
	fmt.Println("  fan <on|off> / led <on|off>")
	fmt.Println("  tare / calibrate <known-kg> / status / stop")
	fmt.Println("  quit")
}
