//go:build windows

package storage

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// IOCTL_STORAGE_QUERY_PROPERTY and the property IDs consumed by it.
const (
	ioctlStorageQueryProperty = 0x002D1400

	storageDeviceSeekPenaltyProperty = 7
	storageAdapterProperty           = 1
	propertyStandardQuery            = 0
)

// storagePropertyQuery is STORAGE_PROPERTY_QUERY.
type storagePropertyQuery struct {
	PropertyID           uint32
	QueryType            uint32
	AdditionalParameters uint32
}

// deviceSeekPenaltyDescriptor is DEVICE_SEEK_PENALTY_DESCRIPTOR.
type deviceSeekPenaltyDescriptor struct {
	Version           uint32
	Size              uint32
	IncursSeekPenalty byte
	_                 [3]byte
}

// storageAdapterDescriptor is STORAGE_ADAPTER_DESCRIPTOR through the
// bus type field, padded so newer drivers have room for the fields
// behind it.
type storageAdapterDescriptor struct {
	Version               uint32
	Size                  uint32
	MaximumTransferLength uint32
	MaximumPhysicalPages  uint32
	AlignmentMask         uint32
	AdapterUsesPio        byte
	AdapterScansDown      byte
	CommandQueueing       byte
	AcceleratedTransfer   byte
	BusType               byte
	_                     byte
	BusMajorVersion       uint16
	BusMinorVersion       uint16
	_                     [10]byte
}

// hardwareQuery opens the volume device and asks the storage stack for
// its seek penalty and adapter bus. The handle requests no access, so
// no administrator rights are needed.
func hardwareQuery(path string) (Info, error) {
	vol := filepath.VolumeName(path)
	if len(vol) != 2 || vol[1] != ':' {
		return Info{}, fmt.Errorf("no drive letter in path %s", path)
	}

	devicePath, err := windows.UTF16PtrFromString(`\\.\` + vol)
	if err != nil {
		return Info{}, err
	}
	handle, err := windows.CreateFile(devicePath, 0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, nil,
		windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", vol, err)
	}
	defer windows.CloseHandle(handle)

	query := storagePropertyQuery{
		PropertyID: storageDeviceSeekPenaltyProperty,
		QueryType:  propertyStandardQuery,
	}
	var seek deviceSeekPenaltyDescriptor
	var returned uint32
	if err := windows.DeviceIoControl(handle, ioctlStorageQueryProperty,
		(*byte)(unsafe.Pointer(&query)), uint32(unsafe.Sizeof(query)),
		(*byte)(unsafe.Pointer(&seek)), uint32(unsafe.Sizeof(seek)),
		&returned, nil); err != nil {
		return Info{}, fmt.Errorf("seek penalty query for %s: %w", vol, err)
	}

	// The bus query is best effort: classification still works without
	// it, the bus just stays unknown.
	bus := BusUnknown
	query.PropertyID = storageAdapterProperty
	var adapter storageAdapterDescriptor
	if err := windows.DeviceIoControl(handle, ioctlStorageQueryProperty,
		(*byte)(unsafe.Pointer(&query)), uint32(unsafe.Sizeof(query)),
		(*byte)(unsafe.Pointer(&adapter)), uint32(unsafe.Sizeof(adapter)),
		&returned, nil); err == nil {
		bus = busTypeFromCode(uint32(adapter.BusType))
	}

	return classifyHardware(seek.IncursSeekPenalty != 0, isRemovableDrive(vol), bus), nil
}

// win32DiskPartition carries the one Win32_DiskPartition field needed
// to hop from a logical disk to its physical disk number.
type win32DiskPartition struct {
	DiskIndex uint32
}

// msftPhysicalDisk mirrors the MSFT_PhysicalDisk fields consumed below.
// MediaType: 3 = HDD, 4 = SSD, 5 = SCM.
type msftPhysicalDisk struct {
	DeviceID  string
	MediaType uint16
	BusType   uint16
}

// inventoryQuery maps the volume to its physical disk and reads the
// declared media type from the Windows storage inventory.
func inventoryQuery(path string) (Info, error) {
	vol := filepath.VolumeName(path)
	if len(vol) != 2 || vol[1] != ':' {
		return Info{}, fmt.Errorf("no drive letter in path %s", path)
	}

	var partitions []win32DiskPartition
	assoc := fmt.Sprintf("ASSOCIATORS OF {Win32_LogicalDisk.DeviceID='%s'} WHERE AssocClass = Win32_LogicalDiskToPartition", vol)
	if err := wmi.Query(assoc, &partitions); err != nil {
		return Info{}, fmt.Errorf("partition lookup for %s: %w", vol, err)
	}
	if len(partitions) == 0 {
		return Info{}, fmt.Errorf("no partition behind %s", vol)
	}

	var disks []msftPhysicalDisk
	q := fmt.Sprintf("SELECT DeviceID, MediaType, BusType FROM MSFT_PhysicalDisk WHERE DeviceID = '%d'", partitions[0].DiskIndex)
	if err := wmi.QueryNamespace(q, &disks, `root\Microsoft\Windows\Storage`); err != nil {
		return Info{}, fmt.Errorf("physical disk lookup for %s: %w", vol, err)
	}
	if len(disks) == 0 {
		return Info{}, fmt.Errorf("no physical disk record for %s", vol)
	}

	disk := disks[0]
	var ssd bool
	switch disk.MediaType {
	case 4, 5:
		ssd = true
	case 3:
		ssd = false
	default:
		return Info{}, fmt.Errorf("unrecognized media type %d for %s", disk.MediaType, vol)
	}

	bus := busTypeFromCode(uint32(disk.BusType))
	removable := isRemovableDrive(vol)

	info := Info{Bus: bus, Confidence: 0.7, Method: MethodInventory}
	switch {
	case !ssd:
		info.Type = HDD
	case removable:
		info.Type = ExternalSSD
	case bus == BusNVMe:
		info.Type = NVMe
	default:
		info.Type = SSD
	}
	info.Threads = info.Type.RecommendedThreads()
	return info, nil
}

// ListVolumes returns the root paths of all present drive letters.
func ListVolumes() ([]string, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("enumerate drives: %w", err)
	}
	var volumes []string
	for i := 0; i < 26; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		volumes = append(volumes, string(rune('A'+i))+`:\`)
	}
	return volumes, nil
}

// isRemovableDrive reports whether the volume sits on removable or
// remote media per GetDriveType.
func isRemovableDrive(vol string) bool {
	root, err := windows.UTF16PtrFromString(vol + `\`)
	if err != nil {
		return false
	}
	kind := windows.GetDriveType(root)
	return kind == windows.DRIVE_REMOVABLE || kind == windows.DRIVE_REMOTE
}

// busTypeFromCode maps STORAGE_BUS_TYPE values onto BusType. The same
// numbering is used by the IOCTL adapter descriptor and by
// MSFT_PhysicalDisk.
func busTypeFromCode(code uint32) BusType {
	switch code {
	case 1:
		return BusSCSI
	case 2:
		return BusATAPI
	case 3:
		return BusATA
	case 4:
		return BusIEEE1394
	case 5:
		return BusSSA
	case 6:
		return BusFibreChannel
	case 7:
		return BusUSB
	case 8:
		return BusRAID
	case 9:
		return BusISCSI
	case 10:
		return BusSAS
	case 11:
		return BusSATA
	case 12:
		return BusSD
	case 13:
		return BusMMC
	case 17:
		return BusNVMe
	default:
		return BusUnknown
	}
}
