package provisioning

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Stormsil/VMGenerator/internal/config"
	"github.com/Stormsil/VMGenerator/internal/patcher"
	"github.com/Stormsil/VMGenerator/internal/platform/proxmox"
)

// mockSession is a hand-rolled Session double. Function fields override
// behavior per test; nil fields fall back to the canned maps.
type mockSession struct {
	mu sync.Mutex

	connectErr error
	cloneFn    func(templateID int, name, storage, format string) (int, error)
	readFn     func(vmid int) (string, error)

	identities []proxmox.Identity
	listErr    error

	configs map[int]string
	written map[int]string

	connectCalls int
	cloneCalls   int
	readCalls    int
	primeCalls   int
}

func newMockSession() *mockSession {
	return &mockSession{
		configs: make(map[int]string),
		written: make(map[int]string),
	}
}

func (m *mockSession) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectCalls++
	return m.connectErr
}

func (m *mockSession) Clone(ctx context.Context, templateID int, name, storage, format string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cloneCalls++
	if m.cloneFn != nil {
		return m.cloneFn(templateID, name, storage, format)
	}
	return 0, fmt.Errorf("no clone behavior configured")
}

func (m *mockSession) ListIdentities(ctx context.Context) ([]proxmox.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identities, m.listErr
}

func (m *mockSession) ReadConfig(ctx context.Context, vmid int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCalls++
	if m.readFn != nil {
		return m.readFn(vmid)
	}
	text, ok := m.configs[vmid]
	if !ok {
		return "", fmt.Errorf("config %d not found", vmid)
	}
	return text, nil
}

func (m *mockSession) WriteConfig(ctx context.Context, vmid int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[vmid] = text
	return nil
}

func (m *mockSession) Prime(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primeCalls++
	return nil
}

// mockSource hands out fixed identity values.
type mockSource struct {
	mac    string
	serial string
	args   string
	err    error
}

func (s *mockSource) NextMacAddress(ctx context.Context) (string, error) {
	return s.mac, s.err
}

func (s *mockSource) NextSerial(ctx context.Context) (string, error) {
	return s.serial, s.err
}

func (s *mockSource) NextArgsBlock(ctx context.Context) (string, error) {
	return s.args, s.err
}

func defaultMockSource() *mockSource {
	return &mockSource{
		mac:    "00:1B:21:3C:4D:5E",
		serial: "WD-WX11A12CD345",
		args:   "args: -cpu 'host' -smbios 'type=11,value=To be filled by O.E.M.' -vnc '0.0.0.0:00'",
	}
}

// nopObserver keeps test output quiet.
type nopObserver struct{}

func (nopObserver) Printf(format string, v ...interface{})         {}
func (nopObserver) Event(event Event)                              {}
func (nopObserver) Progress(phase string, current, total int)      {}
func (o nopObserver) WithFields(fields map[string]string) Observer { return o }

func sampleConfig(name string) string {
	return "balloon: 0\n" +
		"boot: order=sata0\n" +
		"cores: 4\n" +
		"memory: 8192\n" +
		"name: " + name + "\n" +
		"net0: e1000=AA:BB:CC:DD:EE:FF,bridge=vmbr1,firewall=1\n" +
		"sata0: data:vm-100-disk-0,serial=OLDSERIAL1234,size=64G\n"
}

func testContext(t *testing.T, parent context.Context, sess proxmox.Session, q *Queue) *Context {
	t.Helper()

	cfg := config.Default()
	cfg.Proxmox.Password = "secret"
	cfg.Proxmox.Node = "pve"
	cfg.SSH.Host = "pve"
	cfg.SSH.Password = "secret"

	return &Context{
		Context: parent,
		Config:  cfg,
		Timeouts: &config.Timeouts{
			ConfigPoll:     60 * time.Millisecond,
			PollInterval:   5 * time.Millisecond,
			MinConfigBytes: 50,
		},
		Queue:    q,
		State:    NewState(),
		Session:  sess,
		Patcher:  patcher.New(defaultMockSource()),
		Observer: nopObserver{},
	}
}
