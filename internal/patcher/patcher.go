package patcher

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Stormsil/VMGenerator/internal/identity"
)

var (
	rxArgsPort = regexp.MustCompile(`0\.0\.0\.0:(\d{2})`)
	rxMac      = regexp.MustCompile(`(e1000=)([^\s,]+)`)
	rxBridge   = regexp.MustCompile(`(?i)bridge=vmbr(\d+)`)
	rxSerial   = regexp.MustCompile(`(serial=)([A-Za-z0-9\-]+)`)
	rxSmbios11 = regexp.MustCompile(`(type=11,value=)([^,']*)`)
	rxTrailing = regexp.MustCompile(`(\d+)$`)
)

// Result is the outcome of one patch computation.
type Result struct {
	// Patched is the complete rewritten configuration text.
	Patched string

	// Changes lists old/new per logical field, for display only.
	Changes []Change

	// FirstArgsLine is the first line of the inserted argument block.
	FirstArgsLine string

	// AssignedIP is the IP injected into the SMBIOS type=11 value.
	AssignedIP string
}

// Patcher computes configuration patches. Identity values come from the
// Source; everything else is derived deterministically from the machine name.
type Patcher struct {
	source identity.Source

	// hostOctet picks the host part of the assigned IP, uniform in [10, 90].
	// Swappable in tests.
	hostOctet func() int
}

// New creates a Patcher backed by the given identity source.
func New(source identity.Source) *Patcher {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Patcher{
		source:    source,
		hostOctet: func() int { return 10 + rng.Intn(81) },
	}
}

// BuildPatch rewrites rawConfig for the machine named machineName.
//
// The trailing integer of the name doubles as the network bridge index; the
// VNC port and subnet octet derive from it as well. The argument block, MAC
// and disk serial are drawn fresh from the identity source.
func (p *Patcher) BuildPatch(ctx context.Context, rawConfig, machineName string) (*Result, error) {
	number := extractNumber(machineName)
	bridge := number

	subnet := 110 + (bridge - 1)
	targetIP := fmt.Sprintf("192.168.%d.%d", subnet, p.hostOctet())

	argsBlock, err := p.source.NextArgsBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating args block: %w", err)
	}
	newMac, err := p.source.NextMacAddress(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating mac address: %w", err)
	}
	newSerial, err := p.source.NextSerial(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating disk serial: %w", err)
	}

	eol := "\n"
	if strings.Contains(rawConfig, "\r\n") {
		eol = "\r\n"
	}
	argsBlock = strings.ReplaceAll(argsBlock, "\r\n", "\n")
	argsBlock = strings.ReplaceAll(argsBlock, "\n", eol)
	argsBlock = strings.TrimRight(argsBlock, "\r\n")

	port := abs(number)%100 + 10
	portStr := fmt.Sprintf("%02d", port)
	argsBlock = rxArgsPort.ReplaceAllString(argsBlock, "0.0.0.0:"+portStr)

	// Inject or update the IP carried in the SMBIOS type=11 value.
	if rxSmbios11.MatchString(argsBlock) {
		argsBlock = rxSmbios11.ReplaceAllString(argsBlock, "${1}"+targetIP)
	} else {
		argsBlock += fmt.Sprintf(" -smbios 'type=11,value=%s'", targetIP)
	}

	lines := strings.Split(strings.ReplaceAll(rawConfig, "\r\n", "\n"), "\n")

	oldArgsLine := firstLineWithPrefix(lines, "args:")
	oldMac := extractFirst(lines, rxMac, 2)
	oldBridge := extractFirst(lines, rxBridge, 1)
	oldSerial := extractFirst(linesWithPrefix(lines, "sata0:"), rxSerial, 2)
	oldPort := extractPort(oldArgsLine)

	if i := indexWithPrefix(lines, "args:"); i >= 0 {
		lines = append(lines[:i], lines[i+1:]...)
	}

	insertAt := indexWithPrefix(lines, "balloon:")
	if insertAt < 0 {
		insertAt = 0
	}
	lines = append(lines[:insertAt], append([]string{argsBlock}, lines[insertAt:]...)...)

	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " \t")
		switch {
		case hasPrefixFold(trimmed, "net"):
			l = rxMac.ReplaceAllString(l, "${1}"+newMac)
			l = rxBridge.ReplaceAllString(l, "bridge=vmbr"+strconv.Itoa(bridge))
			lines[i] = l
		case hasPrefixFold(trimmed, "sata0:"):
			lines[i] = rxSerial.ReplaceAllString(l, "${1}"+newSerial)
		}
	}

	firstArgsLine := strings.Split(argsBlock, eol)[0]

	oldBridgeDisplay := ""
	if oldBridge != "" {
		oldBridgeDisplay = "vmbr" + oldBridge
	}

	changes := []Change{
		{Field: "MAC (e1000)", Old: oldMac, New: newMac},
		{Field: "Serial (sata0)", Old: oldSerial, New: newSerial},
		{Field: "Bridge", Old: oldBridgeDisplay, New: "vmbr" + strconv.Itoa(bridge)},
		{Field: "VNC port", Old: oldPort, New: portStr},
		{Field: "IP (SMBIOS)", Old: "", New: targetIP},
		{Field: "args", Old: abbrev(trimArgsPrefix(oldArgsLine)), New: abbrev(trimArgsPrefix(firstArgsLine))},
	}

	return &Result{
		Patched:       strings.Join(lines, eol),
		Changes:       changes,
		FirstArgsLine: firstArgsLine,
		AssignedIP:    targetIP,
	}, nil
}

// extractNumber returns the trailing integer of a machine name, or 0.
func extractNumber(name string) int {
	m := rxTrailing.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func firstLineWithPrefix(lines []string, prefix string) string {
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimLeft(l, " \t"), prefix) {
			return l
		}
	}
	return ""
}

func linesWithPrefix(lines []string, prefix string) []string {
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimLeft(l, " \t"), prefix) {
			out = append(out, l)
		}
	}
	return out
}

func indexWithPrefix(lines []string, prefix string) int {
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimLeft(l, " \t"), prefix) {
			return i
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// extractFirst returns the named capture group of the first line matching rx.
// Absence yields an empty value, never an error.
func extractFirst(lines []string, rx *regexp.Regexp, group int) string {
	for _, l := range lines {
		if m := rx.FindStringSubmatch(l); m != nil {
			return m[group]
		}
	}
	return ""
}

func extractPort(argsLine string) string {
	if argsLine == "" {
		return ""
	}
	if m := rxArgsPort.FindStringSubmatch(argsLine); m != nil {
		return m[1]
	}
	return ""
}

// trimArgsPrefix strips the "args:" key for display.
func trimArgsPrefix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if hasPrefixFold(s, "args:") {
		s = strings.TrimSpace(s[len("args:"):])
	}
	return s
}

// abbrevMax bounds displayed values; full values always go into the patch.
const abbrevMax = 600

func abbrev(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= abbrevMax {
		return s
	}
	return s[:abbrevMax-1] + "…"
}
