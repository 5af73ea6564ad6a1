// Package cvr specifies the interface format-specific Cast Vote Record
// readers implement and provides one worked implementation. Readers are
// external collaborators to the tabulation package: they produce a raw
// tabulation.Election for a single contest and carry no tabulation
// semantics of their own.
package cvr

import "github.com/ranked-vote/stv.vote/tabulation"

// Format names the jurisdictional CVR layout a Reader understands, for
// diagnostics and for ElectionMetadata.DataFormat passthrough.
type Format string

const (
	FormatNistSP1500 Format = "nist_sp_1500"
	FormatNYC        Format = "nyc"
	FormatPrefLib    Format = "preflib"
	FormatMaine      Format = "maine"
)

// ElectionMetadata is the inbound-from-metadata contract of the
// information surrounding a contest: the normalization and tabulation
// option structs are the only fields that configure core behavior, per
// the external interface contract. Everything else is passthrough into
// ContestReport.Info.
type ElectionMetadata struct {
	Office           string
	OfficeName       string
	Name             string
	Date             string
	JurisdictionPath string
	ElectionPath     string
	JurisdictionName string
	ElectionName     string
	DataFormat       Format

	Normalization     tabulation.NormalizationPolicy
	TabulationOptions tabulation.TabulationOptions
}

// Reader produces a raw Election for a single contest from some
// jurisdiction-specific source. Implementations must guarantee the
// contract §6 places on format readers: a dense 0-indexed candidate
// vector, every Choice.Vote referencing a valid index, and unique
// ballot ids.
type Reader interface {
	Format() Format
	ReadElection() (tabulation.Election, error)
}

// Info builds the ContestReport.Info passthrough block from metadata.
func (m ElectionMetadata) Info() tabulation.ElectionInfo {
	return tabulation.ElectionInfo{
		Office:           m.Office,
		OfficeName:       m.OfficeName,
		Name:             m.Name,
		Date:             m.Date,
		JurisdictionPath: m.JurisdictionPath,
		ElectionPath:     m.ElectionPath,
		JurisdictionName: m.JurisdictionName,
		ElectionName:     m.ElectionName,
		DataFormat:       string(m.DataFormat),
	}
}
