// Package exporter writes the consolidated expense file and packages it.
//
// ConsolidatedWriter produces a semicolon-delimited, ISO-8859-1 encoded CSV
// whose first line is always
//
//	CNPJ;RazaoSocial;Trimestre;Ano;ValorDespesas
//
// followed by one line per record in the order records were written.
// Amounts use a dot as decimal separator with exactly two decimals.
//
// ZipPackager compresses the finished file into a single-entry archive named
// after the file.
//
// Example usage:
//
//	w, err := exporter.NewConsolidatedWriter("consolidado.csv")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.Write(record)
//
//	err = exporter.NewZipPackager().Package("consolidado.csv", "consolidado_despesas.zip")
package exporter
