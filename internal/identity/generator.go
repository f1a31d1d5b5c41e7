package identity

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Intel-assigned OUIs used as MAC prefixes. Guest network adapters are
// e1000, so the vendor half of the address should look like Intel silicon.
var intelOUIs = []string{
	"00:1B:21", "00:15:17", "00:1E:67", "00:22:4D",
	"3C:FD:FE", "A0:36:9F", "68:05:CA", "90:E2:BA",
}

// SSD model prefixes for disk serials, matching the vendor serial shapes
// seen on retail consumer drives.
var ssdSerialPrefixes = []string{
	"S3Z8NB0K", "S4EVNF0M", "50026B77", "2019E298",
	"PHYG9350", "BTYF0330", "174619C5", "S5RRNF0R",
}

// hardwareProfile describes one motherboard vendor's identity pool.
type hardwareProfile struct {
	family       string
	biosVendor   string
	products     []string
	biosVersions []string
}

var hardwareProfiles = map[string]hardwareProfile{
	"ASUS": {
		family:     "ASUS MB",
		biosVendor: "ASUSTeK COMPUTER INC.",
		products: []string{
			"ROG MAXIMUS XIII HERO", "ROG STRIX Z590-E GAMING WIFI", "TUF GAMING Z590-PLUS",
			"PRIME Z590-A", "ROG STRIX B560-F GAMING", "TUF GAMING Z490-PLUS",
			"PRIME Z490-A", "ROG STRIX B460-F GAMING", "PRIME B460M-A",
			"PRIME H510M-E", "PRIME H410M-K", "TUF GAMING H570-PRO",
		},
		biosVersions: []string{"1004", "1202", "1401", "1602", "2004", "2201", "2403", "0605", "0403"},
	},
	"MSI": {
		family:     "MSI MB",
		biosVendor: "American Megatrends Inc.",
		products: []string{
			"MEG Z590 ACE", "MPG Z590 GAMING CARBON WIFI", "MAG Z590 TOMAHAWK WIFI",
			"Z590-A PRO", "MAG B560 TOMAHAWK WIFI", "MAG B560M MORTAR",
			"MEG Z490 GODLIKE", "MAG Z490 TOMAHAWK", "Z490-A PRO",
			"MAG B460 TOMAHAWK", "H510M-A PRO", "H410M PRO",
		},
		biosVersions: []string{"1.0", "1.2", "1.4", "2.0", "2.3", "A.10", "A.20", "7.00"},
	},
	"Gigabyte": {
		family:     "Gigabyte MB",
		biosVendor: "Gigabyte Technology Co. Ltd.",
		products: []string{
			"Z590 AORUS MASTER", "Z590 AORUS ELITE AX", "Z590 VISION G",
			"Z590 GAMING X", "B560 AORUS PRO AX", "B560M DS3H",
			"Z490 AORUS XTREME", "Z490 AORUS MASTER", "Z490 UD",
			"B460M AORUS PRO", "H510M S2H", "H410M H",
		},
		biosVersions: []string{"F2", "F4", "F6", "F8", "F10", "F12", "F14", "F20", "F21", "F3a", "F4c"},
	},
	"ASRock": {
		family:     "ASRock MB",
		biosVendor: "American Megatrends Inc.",
		products: []string{
			"Z590 Taichi", "Z590 Extreme", "Z590 Steel Legend", "Z590 Phantom Gaming 4",
			"B560 Steel Legend", "B560M Pro4", "B560M-HDV",
			"Z490 Taichi", "Z490 Extreme4", "B460 Steel Legend", "H510M-HDV",
		},
		biosVersions: []string{"P1.10", "P1.20", "P1.40", "P2.10", "P2.50", "L1.52", "1.80"},
	},
	"HUANANZHI": {
		family:     "HUANANZHI MB",
		biosVendor: "American Megatrends Inc.",
		products: []string{
			"X99-TF", "X99-F8", "X99-T8", "X99-AD4", "X99-BD4", "X99-8M", "X79-ZD3", "X99-QD4",
		},
		biosVersions: []string{"1004", "1202", "1401", "1602", "2004", "2201"},
	},
}

var cpuVersions = []string{
	"Intel(R) Xeon(R) CPU E3-1225 v3 @ 3.20GHz", "Intel(R) Xeon(R) CPU E3-1230 v6 @ 3.50GHz",
	"Intel(R) Xeon(R) CPU E3-1240 v3 @ 3.40GHz", "Intel(R) Xeon(R) CPU E3-1245 v5 @ 3.50GHz",
	"Intel(R) Xeon(R) CPU E3-1270 v5 @ 3.60GHz", "Intel(R) Xeon(R) CPU E3-1280 v6 @ 3.90GHz",
	"Intel(R) Xeon(R) CPU E5-2678 v3 @ 2.50GHz", "Intel(R) Xeon(R) CPU E5-2666 v3 @ 2.90GHz",
	"Intel(R) Xeon(R) CPU E5-2640 v3 @ 2.60GHz", "Intel(R) Xeon(R) CPU E5-2620 v3 @ 2.40GHz",
	"Intel(R) Xeon(R) CPU E5-2670 v3 @ 2.30GHz", "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz",
	"Intel(R) Xeon(R) CPU E5-2650 v4 @ 2.20GHz", "Intel(R) Xeon(R) CPU E5-2690 v3 @ 2.60GHz",
	"Intel(R) Core(TM) i7-5960X CPU @ 3.00GHz", "Intel(R) Core(TM) i7-6800K CPU @ 3.40GHz",
}

type ramModule struct {
	manufacturer string
	part         string
	serialSuffix string
}

var ramModules = []ramModule{
	{"Samsung", "M393A1G40DDA-CPB", "T6"},
	{"G.Skill", "F4-3200C16D-32GTZR", "GS"},
	{"SK Hynix", "HMA81GS6CJR8N-VK", "HY"},
	{"Corsair", "CMK32GX4M2B3200C16", "CS"},
	{"Crucial", "BL2K16G32C16U4B", "CR"},
	{"Kingston", "HX432C16FB3K2/32", "KG"},
	{"Patriot", "PVS416G320C6K", "PA"},
	{"TeamGroup", "TF3D416G3200HC16CDC01", "TG"},
}

var hvVendorIDs = []string{"GenuineIntel", "Microsoft Hv"}

var biosReleases = []string{"5.17", "5.19", "5.22", "6.00", "6.41", "6.52"}

// Generator is an in-process pseudo-random Source. It satisfies the same
// uniqueness and format contract as the external generator commands without
// leaving the process.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

func newGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now}
}

// NextMacAddress returns an Intel-OUI unicast MAC address.
func (g *Generator) NextMacAddress(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	oui := intelOUIs[g.rng.Intn(len(intelOUIs))]
	return fmt.Sprintf("%s:%02X:%02X:%02X", oui,
		g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256)), nil
}

// NextSerial returns an SSD-style disk serial number.
func (g *Generator) NextSerial(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prefix := ssdSerialPrefixes[g.rng.Intn(len(ssdSerialPrefixes))]
	const charset = "0123456789ABCDEFGHJKLMNPRSTUVWXYZ"
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < 7; i++ {
		b.WriteByte(charset[g.rng.Intn(len(charset))])
	}
	return b.String(), nil
}

// NextArgsBlock assembles the full args: line. The SMBIOS type=11 value and
// VNC listen port are placeholders; the patcher rewrites both.
func (g *Generator) NextArgsBlock(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	brands := make([]string, 0, len(hardwareProfiles))
	for brand := range hardwareProfiles {
		brands = append(brands, brand)
	}
	// Stable index space so a seeded rng yields reproducible output.
	sort.Strings(brands)

	manufacturer := brands[g.rng.Intn(len(brands))]
	profile := hardwareProfiles[manufacturer]
	product := profile.products[g.rng.Intn(len(profile.products))]
	biosVersion := profile.biosVersions[g.rng.Intn(len(profile.biosVersions))]
	release := biosReleases[g.rng.Intn(len(biosReleases))]

	daysAgo := 200 + g.rng.Intn(601)
	biosDate := g.now().AddDate(0, 0, -daysAgo).Format("01/02/2006")

	cpu := cpuVersions[g.rng.Intn(len(cpuVersions))]
	ram := ramModules[g.rng.Intn(len(ramModules))]
	hvVendorID := hvVendorIDs[g.rng.Intn(len(hvVendorIDs))]

	systemUUID := uuid.New().String()
	serialSys := fmt.Sprintf("SN-%012d", g.rng.Int63n(900000000000)+100000000000)
	serialMB := fmt.Sprintf("MB-%012d", g.rng.Int63n(900000000000)+100000000000)
	serialChassis := fmt.Sprintf("SN-%012d", g.rng.Int63n(900000000000)+100000000000)
	serialRAM := fmt.Sprintf("%06d%s", g.rng.Intn(900000)+100000, ram.serialSuffix)

	args := fmt.Sprintf(
		"args: -cpu 'host,hypervisor=off,kvm=off,rdtscp=off,migratable=off,hv-vendor-id=%s' "+
			"-smbios 'type=0,version=BIOS Date: %s Ver: %s,vendor=%s,uefi=on,release=%s,date=AMI %s' "+
			"-smbios 'type=1,version=1.0,product=%s,manufacturer=%s,uuid=%s,serial=%s,family=%s' "+
			"-smbios 'type=2,asset=Not Specified,version=1.0,product=%s,location=Motherboard,manufacturer=%s,serial=%s' "+
			"-smbios 'type=3,asset=Not Specified,version=2021,sku=Default string,manufacturer=%s,serial=%s' "+
			"-smbios 'type=4,asset=Not Specified,version=%s,part=Xeon,manufacturer=Intel,serial=Not Specified,sock_pfx=SOCKET 0' "+
			"-smbios 'type=11,value=To be filled by O.E.M.' "+
			"-smbios 'type=17,bank=Bank 0,asset=DIMM_A1_AssetTag,part=%s,manufacturer=%s,speed=2666,serial=%s,loc_pfx=DIMM 0' "+
			"-vnc '0.0.0.0:00'",
		hvVendorID,
		biosDate, biosVersion, profile.biosVendor, release, biosDate,
		product, manufacturer, systemUUID, serialSys, profile.family,
		product, manufacturer, serialMB,
		manufacturer, serialChassis,
		cpu,
		ram.part, ram.manufacturer, serialRAM,
	)
	return args, nil
}

