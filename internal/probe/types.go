package probe

// Category buckets PCI devices by function.
type Category int

const (
	Graphics Category = iota
	Network
	Storage
	Audio
	USB
)

// Categories lists every device category in display order.
var Categories = []Category{Graphics, Network, Storage, Audio, USB}

var categoryNames = map[Category]string{
	Graphics: "Graphics",
	Network:  "Network",
	Storage:  "Storage",
	Audio:    "Audio",
	USB:      "USB",
}

var categoryKeywords = map[Category][]string{
	Graphics: {"VGA", "3D", "Display"},
	Network:  {"Network", "Ethernet", "Wireless"},
	Storage:  {"SATA", "RAID", "NVMe", "IDE", "SCSI", "Mass storage"},
	Audio:    {"Audio", "Sound", "Multimedia"},
	USB:      {"USB"},
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Keywords returns the substrings that mark a device line as belonging to c.
func (c Category) Keywords() []string {
	return categoryKeywords[c]
}

// DeviceRecord is one PCI device and the kernel driver bound to it.
type DeviceRecord struct {
	Driver      string
	Description string
	Version     string
	HasVersion  bool
	Category    Category
}

// ModuleRecord is one row of the loaded kernel module table.
type ModuleRecord struct {
	Name       string
	SizeBytes  int64
	UseCount   int
	UsedBy     []string
	Version    string
	HasVersion bool
}

// LinkState is the administrative state of a network interface.
type LinkState int

const (
	LinkUnknown LinkState = iota
	LinkUp
	LinkDown
)

func (s LinkState) String() string {
	switch s {
	case LinkUp:
		return "UP"
	case LinkDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// InterfaceRecord describes a network interface. NetmaskBits is -1 and MTU
// is 0 when the enumeration did not report them.
type InterfaceRecord struct {
	Name        string
	State       LinkState
	IPv4        string
	IPv6        string
	NetmaskBits int
	MAC         string
	MTU         int
	RxBytes     string
	TxBytes     string
	RxRaw       uint64
	TxRaw       uint64
	HasCounters bool
}

// KeyValue is a single labelled detail line.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Summary is the classified result of one connectivity probe.
type Summary struct {
	Status         string
	Details        []KeyValue
	NeedsElevation bool
}

// Connectivity groups the per-domain summaries gathered in one poll.
type Connectivity struct {
	Firewall Summary
	WiFi     Summary
	Ethernet Summary
	DNS      Summary
	VPN      Summary
}
