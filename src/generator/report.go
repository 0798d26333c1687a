package generator

import (
	"github.com/bytedance/sonic"

	"favicongen/src/common"
)

// Report aggregates every result of one run. Its fields are fixed by the
// catalogs; only success and error content vary between runs.
type Report struct {
	Favicons        []common.OperationResult `json:"favicons"`
	LegacyIcon      common.OperationResult   `json:"legacyIcon"`
	AppleTouchIcons []common.OperationResult `json:"appleTouchIcons"`
	AndroidIcons    []common.OperationResult `json:"androidIcons"`
	MSTiles         []common.OperationResult `json:"msTiles"`
	Manifest        common.OperationResult   `json:"manifest"`
	BrowserConfig   common.OperationResult   `json:"browserConfig"`
	HTML            common.OperationResult   `json:"html"`
}

// All returns every result in generation order
func (r *Report) All() []common.OperationResult {
	var all []common.OperationResult
	all = append(all, r.Favicons...)
	all = append(all, r.LegacyIcon)
	all = append(all, r.AppleTouchIcons...)
	all = append(all, r.AndroidIcons...)
	all = append(all, r.MSTiles...)
	all = append(all, r.Manifest, r.BrowserConfig, r.HTML)
	return all
}

// Failed returns the results that did not succeed
func (r *Report) Failed() []common.OperationResult {
	var failed []common.OperationResult
	for _, res := range r.All() {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary returns the total and failed result counts
func (r *Report) Summary() (total, failed int) {
	all := r.All()
	return len(all), countFailed(all)
}

// JSON encodes the report for machine consumption
func (r *Report) JSON() ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(r, "", "  ")
}
