package output

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/siimots/sadamad-data/internal/model"
)

// SheetName is the worksheet holding the port table.
const SheetName = "sadamad"

// XLSXHeader is the header row of the port table.
var XLSXHeader = []string{
	"sadamaregister", "sadama_nimi", "omanik", "omanik_telefon", "omanik_epost",
	"koduleht", "sadamakapteni_nimi", "sadamakapteni_telefon", "sadamakapteni_epost",
	"max_pikkus", "max_laius", "max_sygavus", "modified_date", "lon", "lat",
}

// WriteXLSX writes the features as one row per port.
func WriteXLSX(path string, fc model.FeatureCollection) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "output: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range XLSXHeader {
		header.AddCell().SetString(h)
	}

	for _, feat := range fc.Features {
		p := feat.Properties
		row := sheet.AddRow()
		if n, ok := p.Register.Int(); ok {
			row.AddCell().SetInt64(n)
		} else {
			row.AddCell().SetString(p.Register.String())
		}
		for _, v := range []string{
			p.Name, p.Owner, p.OwnerPhone, p.OwnerEmail, p.Website,
			p.MasterName, p.MasterPhone, p.MasterEmail,
			p.MaxLength, p.MaxWidth, p.MaxDraft, p.ModifiedDate,
		} {
			row.AddCell().SetString(v)
		}
		if feat.Geometry != nil {
			row.AddCell().SetFloat(feat.Lon())
			row.AddCell().SetFloat(feat.Lat())
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "output: save %s", path)
	}
	return nil
}
