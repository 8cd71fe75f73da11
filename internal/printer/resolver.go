package printer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"

	"github.com/adcondev/wps-print/internal/printerrors"
)

// Resolver maps paper names to driver paper ids
type Resolver struct {
	registry Registry
	driver   Driver
	log      *zap.Logger
}

// NewResolver creates a resolver over the given registry and driver
func NewResolver(registry Registry, driver Driver, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{registry: registry, driver: driver, log: log.Named("paper")}
}

// Resolve finds the driver paper id whose name equals paperName exactly.
// Names are compared case-sensitively with no fuzzy fallback.
func (r *Resolver) Resolve(printerName, paperName string) (Capability, error) {
	caps, err := r.Capabilities(printerName)
	if err != nil {
		return Capability{}, err
	}

	for _, c := range caps {
		if c.PaperName == paperName {
			r.log.Debug("[PAPER] resolved",
				zap.String("printer", printerName),
				zap.String("paper", paperName),
				zap.Int("paper_id", c.PaperID))
			return c, nil
		}
	}

	return Capability{}, fmt.Errorf("%w: %q on printer %q", printerrors.ErrPaperNotFound, paperName, printerName)
}

// Capabilities returns every paper the printer's driver supports, ids paired with names by index
func (r *Resolver) Capabilities(printerName string) ([]Capability, error) {
	info, err := r.registry.Lookup(printerName)
	if err != nil {
		return nil, err
	}

	count, err := r.driver.Capabilities(info.Name, info.Port, QueryPapers, nil)
	if count <= 0 {
		return nil, driverError(info.Name, "count "+QueryPapers.String(), err)
	}

	ids, err := r.queryPaperIDs(info, count)
	if err != nil {
		return nil, err
	}

	if len(info.PaperNames) != len(ids) {
		if info.namesErr != nil {
			return nil, driverError(info.Name, "read "+QueryPaperNames.String(), info.namesErr)
		}
		return nil, &printerrors.DriverError{
			Printer: info.Name,
			Op:      "pair",
			Err:     fmt.Errorf("driver reported %d paper ids but printer lists %d names", len(ids), len(info.PaperNames)),
		}
	}

	caps := make([]Capability, len(ids))
	for i, id := range ids {
		caps[i] = Capability{PaperID: int(id), PaperName: info.PaperNames[i]}
	}
	return caps, nil
}

// queryPaperIDs runs both table queries. The buffers never outlive this call.
func (r *Resolver) queryPaperIDs(info Info, count int) ([]uint16, error) {
	idBuf, err := r.driver.Alloc(count * paperIDSize)
	if err != nil {
		return nil, driverError(info.Name, "alloc "+QueryPapers.String(), err)
	}
	defer r.release(idBuf, QueryPapers)

	nameBuf, err := r.driver.Alloc(count * paperNameSize)
	if err != nil {
		return nil, driverError(info.Name, "alloc "+QueryPaperNames.String(), err)
	}
	defer r.release(nameBuf, QueryPaperNames)

	idCount, err := r.driver.Capabilities(info.Name, info.Port, QueryPapers, idBuf)
	if idCount <= 0 {
		return nil, driverError(info.Name, QueryPapers.String(), err)
	}

	// The name table is only checked for length; Info.PaperNames is the name source.
	nameCount, err := r.driver.Capabilities(info.Name, info.Port, QueryPaperNames, nameBuf)
	if nameCount <= 0 {
		return nil, driverError(info.Name, QueryPaperNames.String(), err)
	}

	if idCount != count || nameCount != count {
		return nil, &printerrors.DriverError{
			Printer: info.Name,
			Op:      "pair",
			Err:     fmt.Errorf("driver reported %d papers, then %d ids and %d names", count, idCount, nameCount),
		}
	}

	raw := idBuf.Bytes()
	if len(raw) < idCount*paperIDSize {
		return nil, &printerrors.DriverError{
			Printer: info.Name,
			Op:      QueryPapers.String(),
			Err:     fmt.Errorf("buffer holds %d bytes, need %d", len(raw), idCount*paperIDSize),
		}
	}

	ids := make([]uint16, idCount)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint16(raw[i*paperIDSize:])
	}
	return ids, nil
}

func (r *Resolver) release(buf NativeBuffer, q Query) {
	if err := buf.Release(); err != nil {
		r.log.Warn("[PAPER] ⚠️ Error releasing driver buffer", zap.Stringer("query", q), zap.Error(err))
	}
}

func driverError(printerName, op string, err error) error {
	return &printerrors.DriverError{
		Printer: printerName,
		Op:      op,
		Code:    lastErrorCode(err),
		Err:     err,
	}
}

func lastErrorCode(err error) uintptr {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uintptr(errno)
	}
	return 0
}
