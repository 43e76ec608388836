package virtinstall

import (
	"fmt"
	"io"
	"strings"

	"github.com/kdomanski/iso9660"
)

const (
	// OEMDRVLabel is the volume label Anaconda scans for a kickstart.
	OEMDRVLabel = "OEMDRV"

	// OEMDRVKickstartName is the file name Anaconda expects on the volume.
	OEMDRVKickstartName = "ks.cfg"
)

// WriteOEMDRV writes an ISO9660 image containing the kickstart as ks.cfg
// under the OEMDRV label.
//
// See https://anaconda-installer.readthedocs.io/en/latest/boot-options.html#inst-ks
func WriteOEMDRV(w io.Writer, kickstart string) error {
	writer, err := iso9660.NewWriter()
	if err != nil {
		return fmt.Errorf("failed to create ISO writer: %w", err)
	}
	defer func() {
		_ = writer.Cleanup()
	}()

	if err := writer.AddFile(strings.NewReader(kickstart), OEMDRVKickstartName); err != nil {
		return fmt.Errorf("failed to add %s: %w", OEMDRVKickstartName, err)
	}

	if err := writer.WriteTo(w, OEMDRVLabel); err != nil {
		return fmt.Errorf("failed to write ISO image: %w", err)
	}
	return nil
}
