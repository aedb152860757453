package storage

import "strings"

// DriveType classifies the storage medium backing a volume. The class
// drives the parallelism recommendation: flash media with deep command
// queues take many concurrent readers, spinning media take one.
type DriveType int

const (
	// Unknown means no detection tier produced a verdict.
	Unknown DriveType = iota

	// HDD is rotational media, internal or external.
	HDD

	// ExternalSSD is flash media behind USB or another external bus.
	ExternalSSD

	// SSD is internal SATA-class flash media.
	SSD

	// NVMe is internal PCIe flash media.
	NVMe
)

// RecommendedThreads returns the hashing worker count the medium can
// sustain. Rotational and unknown media get a single reader so the head
// is never forced to seek between files.
func (d DriveType) RecommendedThreads() int {
	switch d {
	case NVMe:
		return 16
	case SSD:
		return 8
	case ExternalSSD:
		return 4
	default:
		return 1
	}
}

// String returns the display name of the drive type.
func (d DriveType) String() string {
	switch d {
	case NVMe:
		return "NVMe"
	case SSD:
		return "SSD"
	case ExternalSSD:
		return "External SSD"
	case HDD:
		return "HDD"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so DriveType renders as
// a stable token in JSON and YAML output.
func (d DriveType) MarshalText() ([]byte, error) {
	switch d {
	case NVMe:
		return []byte("nvme"), nil
	case SSD:
		return []byte("ssd"), nil
	case ExternalSSD:
		return []byte("external_ssd"), nil
	case HDD:
		return []byte("hdd"), nil
	default:
		return []byte("unknown"), nil
	}
}

// BusType identifies the transport between host and storage device,
// following the Windows STORAGE_BUS_TYPE numbering where the platform
// reports one.
type BusType int

const (
	BusUnknown BusType = iota
	BusSCSI
	BusATAPI
	BusATA
	BusIEEE1394
	BusSSA
	BusFibreChannel
	BusUSB
	BusRAID
	BusISCSI
	BusSAS
	BusSATA
	BusSD
	BusMMC
	BusNVMe
)

// String returns the display name of the bus type.
func (b BusType) String() string {
	switch b {
	case BusSCSI:
		return "SCSI"
	case BusATAPI:
		return "ATAPI"
	case BusATA:
		return "ATA"
	case BusIEEE1394:
		return "IEEE 1394"
	case BusSSA:
		return "SSA"
	case BusFibreChannel:
		return "Fibre Channel"
	case BusUSB:
		return "USB"
	case BusRAID:
		return "RAID"
	case BusISCSI:
		return "iSCSI"
	case BusSAS:
		return "SAS"
	case BusSATA:
		return "SATA"
	case BusSD:
		return "SD"
	case BusMMC:
		return "MMC"
	case BusNVMe:
		return "NVMe"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b BusType) MarshalText() ([]byte, error) {
	token := strings.ReplaceAll(strings.ToLower(b.String()), " ", "_")
	return []byte(token), nil
}

// Info describes the storage backing one analyzed path.
type Info struct {
	// Type is the detected medium class.
	Type DriveType `json:"type"`

	// Bus is the transport the device sits behind, when known.
	Bus BusType `json:"bus"`

	// Volume identifies the volume the path lives on. Paths with equal
	// Volume values share hardware and should share a thread budget.
	Volume string `json:"volume"`

	// Threads is the recommended hashing worker count for this medium.
	Threads int `json:"threads"`

	// Confidence is the detector's certainty in [0,1]. Hardware queries
	// report 0.9, benchmarks 0.7 to 0.8, media inventory 0.7, and the
	// conservative fallback 0.
	Confidence float64 `json:"confidence"`

	// Method names the detection tier that produced this verdict.
	Method string `json:"method"`
}
