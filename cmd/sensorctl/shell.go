package main

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/watercontroller/tankmon/internal/config"
	"github.com/watercontroller/tankmon/sen0676"
)

const shellKey = "$shell"

// Shell provides ishell backed interactive shell.
type Shell struct {
	Shell *ishell.Shell

	sensor     *sen0676.Sensor
	configPath string
}

var commands = []*ishell.Cmd{
	&RegsCmd,
	&ReadCmd,
	&WriteCmd,
	&LevelCmd,
	&AddressCmd,
	&BaudCmd,
	&DrainCmd,
	&TankCmd,
}

// NewShell creates a shell for sensor. configPath is edited by the tank
// command and may be empty.
func NewShell(sensor *sen0676.Sensor, configPath string) *Shell {
	s := &Shell{
		Shell:      ishell.New(),
		sensor:     sensor,
		configPath: configPath,
	}
	s.Shell.Set(shellKey, s)
	s.setPrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run runs a single command given on the command line, or the interactive
// shell without one.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	s.Shell.Run()
}

func (s *Shell) setPrompt() {
	s.Shell.SetPrompt(fmt.Sprintf("[0x%02X] > ", s.sensor.Address()))
}

// run adapts a command returning text to ishell.
func run(fn func(s *Shell, args []string) (string, error)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		out, err := fn(ShellFrom(c), c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		if out != "" {
			c.Println(out)
		}
	}
}

var (
	// RegsCmd lists the register map.
	RegsCmd = ishell.Cmd{
		Name:    "regs",
		Aliases: []string{"list", "l"},
		Help:    "list registers",
		Func:    run((*Shell).regs),
	}

	// ReadCmd reads a register.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "NAME|ADDR",
		Func:    run((*Shell).read),
	}

	// WriteCmd writes a register.
	WriteCmd = ishell.Cmd{
		Name:    "write",
		Aliases: []string{"w"},
		Help:    "NAME|ADDR VALUE",
		Func:    run((*Shell).write),
	}

	// LevelCmd reads the measurement registers.
	LevelCmd = ishell.Cmd{
		Name: "level",
		Help: "read empty height and water level",
		Func: run((*Shell).level),
	}

	// AddressCmd re-addresses the device.
	AddressCmd = ishell.Cmd{
		Name: "address",
		Help: "NEW_ADDRESS",
		Func: func(c *ishell.Context) {
			run((*Shell).setAddress)(c)
			ShellFrom(c).setPrompt()
		},
	}

	// BaudCmd changes the device line speed.
	BaudCmd = ishell.Cmd{
		Name: "baud",
		Help: "BAUD",
		Func: run((*Shell).setBaud),
	}

	// DrainCmd prints pending boot text.
	DrainCmd = ishell.Cmd{
		Name: "drain",
		Help: "print text the sensor printed on boot",
		Func: run((*Shell).drain),
	}

	// TankCmd shows or edits the tank settings of the configuration file.
	TankCmd = ishell.Cmd{
		Name: "tank",
		Help: "[capacity|height|psi|radar VALUE]",
		Func: run((*Shell).tank),
	}
)

func (s *Shell) regs(_ []string) (string, error) {
	var w bytes.Buffer
	for _, r := range sen0676.Registers {
		fmt.Fprintln(&w, r)
	}
	return strings.TrimRight(w.String(), "\n"), nil
}

func (s *Shell) read(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: read NAME|ADDR")
	}
	reg, err := lookupRegister(args[0])
	if err != nil {
		return "", err
	}
	v, err := s.sensor.Read(reg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %d (0x%04X)", reg.Name, v, v), nil
}

func (s *Shell) write(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: write NAME|ADDR VALUE")
	}
	reg, err := lookupRegister(args[0])
	if err != nil {
		return "", err
	}
	v, err := parseUint16(args[1])
	if err != nil {
		return "", err
	}
	if err := s.sensor.Write(reg, v); err != nil {
		return "", err
	}
	return "OK", nil
}

func (s *Shell) level(_ []string) (string, error) {
	empty, err := s.sensor.ReadEmptyHeight()
	if err != nil {
		return "", err
	}
	level, err := s.sensor.ReadWaterLevel()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("empty height %d mm, water level %d mm", empty, level), nil
}

func (s *Shell) setAddress(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: address NEW_ADDRESS")
	}
	v, err := parseUint16(args[0])
	if err != nil {
		return "", err
	}
	if v > 0xFF {
		return "", fmt.Errorf("%w: %s", sen0676.ErrInvalidAddress, args[0])
	}
	if err := s.sensor.SetDeviceAddress(byte(v)); err != nil {
		return "", err
	}
	return fmt.Sprintf("device now at 0x%02X", s.sensor.Address()), nil
}

func (s *Shell) setBaud(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: baud BAUD")
	}
	baud, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return "", err
	}
	if err := s.sensor.SetBaudRate(uint32(baud)); err != nil {
		return "", err
	}
	return fmt.Sprintf("OK, restart with -baud %d", baud), nil
}

func (s *Shell) drain(_ []string) (string, error) {
	lines := s.sensor.DrainASCIIMessages()
	if len(lines) == 0 {
		return "no boot text", nil
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Shell) tank(args []string) (string, error) {
	if s.configPath == "" {
		return "", fmt.Errorf("tank: no -config given")
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return "", err
	}
	t := &cfg.Tank
	if len(args) == 0 {
		return formatTank(*t), nil
	}
	if len(args) != 2 {
		return "", fmt.Errorf("usage: tank [capacity|height|psi|radar VALUE]")
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return "", err
	}
	switch args[0] {
	case "capacity":
		t.SetCapacityGallons(v)
	case "height":
		t.SetSensorHeightFeet(v)
	case "psi":
		t.SetMaxPSI(v)
	case "radar":
		t.SetRadarHeightCm(v)
	default:
		return "", fmt.Errorf("tank: unknown setting %q", args[0])
	}
	if err := config.Save(s.configPath, cfg); err != nil {
		return "", err
	}
	return formatTank(*t), nil
}

func formatTank(t config.TankConfig) string {
	return fmt.Sprintf("capacity %d gal, sensor height %d ft, max %d psi, radar height %d cm",
		t.CapacityGallons, t.SensorHeightFeet, t.MaxPSI, t.RadarHeightCm)
}

// lookupRegister finds a register by name or address.
func lookupRegister(arg string) (sen0676.Register, error) {
	if r, ok := sen0676.Lookup(arg); ok {
		return r, nil
	}
	if addr, err := parseUint16(arg); err == nil {
		for _, r := range sen0676.Registers {
			if r.Address == addr {
				return r, nil
			}
		}
	}
	return sen0676.Register{}, fmt.Errorf("unknown register %q", arg)
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return uint16(v), nil
}
