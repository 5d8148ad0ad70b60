// Package dataprocessing turns staged ANS accounting archives into expense records.
//
// # Components
//
//  1. ExtractPeriod: reads the quarter and year out of names like "1T2025.zip",
//     falling back to domain.SentinelPeriod ("0T", "0000") for anything else.
//  2. RecordParser: opens the first .csv entry of an archive, decodes it from
//     ISO-8859-1, skips the header and yields rows with at least six fields.
//  3. ExpenseFilter: keeps rows whose description mentions EVENTO or SINISTRO
//     and whose amount is positive, and maps them to domain.ExpenseRecord.
//
// # Data Flow
//
//	archive → RecordParser → RawRow → ExpenseFilter → RowResult → exporter
//
// Data-quality problems never surface as errors. The filter returns a
// domain.RowResult carrying a drop reason so callers can count them.
// Archive-level problems (corrupt zip, missing entry) are returned as errors
// for the caller to log and skip.
//
// # Usage
//
//	parser := dataprocessing.NewRecordParser()
//	filter := dataprocessing.DefaultExpenseFilter()
//	ref, _ := dataprocessing.ArchiveReferenceFor("downloads/1T2025.zip")
//	_, err := parser.ParseArchive(ref, func(row domain.RawRow) error {
//	    if res := filter.Apply(row, ref.Period); res.Qualified() {
//	        return writer.Write(*res.Record)
//	    }
//	    return nil
//	})
package dataprocessing
