package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"medicare/internal/excel"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-medicines",
		Usage: "merge medicines from an xlsx workbook into the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "workbook to read", Required: true},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			path := c.String("file")
			sheet, err := excel.ImportFile(path)
			if err != nil {
				return err
			}
			res, err := a.catalog.Import(c.Context, sheet.Records)
			if err != nil {
				return errors.Wrap(err, "import medicines")
			}
			a.log.WithFields(logrus.Fields{
				"file":    path,
				"created": res.Created,
				"updated": res.Updated,
				"skipped": res.Skipped + sheet.Skipped,
			}).Info("import done")
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-medicines",
		Usage: "write the valid catalog to an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "workbook to write", Value: "medicines.xlsx"},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			meds, err := a.catalog.All(c.Context)
			if err != nil {
				return err
			}
			path := c.String("file")
			if err := excel.ExportFile(path, meds); err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"file": path, "medicines": len(meds)}).Info("export done")
			return nil
		},
	}
}
