package dataprocessing

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// periodPattern matches "<quarter digits>t<year digits>" once the name has
// been lower-cased and its archive extension removed.
var periodPattern = regexp.MustCompile(`^(\d+)t(\d+)$`)

// ExtractPeriod derives the reporting period from an archive file name such
// as "1T2025.zip". Names that do not match return SentinelPeriod and false;
// the caller decides how to report it.
func ExtractPeriod(name string) (domain.Period, bool) {
	base := strings.ToLower(filepath.Base(name))
	base = strings.TrimSuffix(base, ".zip")

	m := periodPattern.FindStringSubmatch(base)
	if m == nil {
		return domain.SentinelPeriod, false
	}

	return domain.Period{
		Quarter: m[1] + "T",
		Year:    m[2],
	}, true
}

// ArchiveReferenceFor builds the immutable reference the parser consumes
func ArchiveReferenceFor(path string) (domain.ArchiveReference, bool) {
	period, ok := ExtractPeriod(path)
	return domain.ArchiveReference{
		Path:   path,
		Name:   filepath.Base(path),
		Period: period,
	}, ok
}
