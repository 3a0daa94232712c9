// Package catalog imports plant-variety profiles from CSV or XLSX sheets.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gardencare/entities"
	"gardencare/pkg/catalog/repository"
)

func f64(v float64) *float64 { return &v }

// DefaultVarieties is seeded when no catalog file is configured.
var DefaultVarieties = []entities.PlantVarietyProfile{
	{Name: "Roma Tomato", Species: "tomato", GerminationDaysMin: 5, GerminationDaysMax: 10, DaysToHarvest: 80, SpacingCM: 60,
		WaterRequirement: entities.WaterMedium, SunRequirement: "full_sun", PHMin: f64(6.0), PHMax: f64(6.8)},
	{Name: "California Wonder Pepper", Species: "pepper", GerminationDaysMin: 8, GerminationDaysMax: 14, DaysToHarvest: 75, SpacingCM: 45,
		WaterRequirement: entities.WaterMedium, SunRequirement: "full_sun"},
	{Name: "Marketmore Cucumber", Species: "cucumber", GerminationDaysMin: 3, GerminationDaysMax: 10, DaysToHarvest: 65, SpacingCM: 30,
		WaterRequirement: entities.WaterHigh, SunRequirement: "full_sun"},
	{Name: "Genovese Basil", Species: "basil", GerminationDaysMin: 5, GerminationDaysMax: 10, DaysToHarvest: 60, SpacingCM: 25,
		WaterRequirement: entities.WaterMedium, SunRequirement: "full_sun"},
	{Name: "Buttercrunch Lettuce", Species: "lettuce", GerminationDaysMin: 2, GerminationDaysMax: 8, DaysToHarvest: 55, SpacingCM: 25,
		WaterRequirement: entities.WaterHigh, SunRequirement: "partial_shade"},
	{Name: "Bloomsdale Spinach", Species: "spinach", GerminationDaysMin: 7, GerminationDaysMax: 14, DaysToHarvest: 45, SpacingCM: 15,
		WaterRequirement: entities.WaterMedium, SunRequirement: "partial_shade"},
	{Name: "Lacinato Kale", Species: "kale", GerminationDaysMin: 5, GerminationDaysMax: 10, DaysToHarvest: 60, SpacingCM: 45,
		WaterRequirement: entities.WaterMedium, SunRequirement: "full_sun"},
	{Name: "Nantes Carrot", Species: "carrot", GerminationDaysMin: 10, GerminationDaysMax: 21, DaysToHarvest: 70, SpacingCM: 5,
		WaterRequirement: entities.WaterLow, SunRequirement: "full_sun"},
	{Name: "Blue Lake Bean", Species: "bean", GerminationDaysMin: 6, GerminationDaysMax: 10, DaysToHarvest: 58, SpacingCM: 10,
		WaterRequirement: entities.WaterMedium, SunRequirement: "full_sun"},
	{Name: "Seascape Strawberry", Species: "strawberry", GerminationDaysMin: 14, GerminationDaysMax: 28, DaysToHarvest: 90, SpacingCM: 30,
		WaterRequirement: entities.WaterHigh, SunRequirement: "full_sun", PHMin: f64(5.5), PHMax: f64(6.8)},
}

// Load reads a catalog from a .csv or .xlsx file. The first row is the header.
func Load(path string) ([]entities.PlantVarietyProfile, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("catalog: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return parse(path, rows)
}

// Seed upserts the catalog at path, or DefaultVarieties when path is empty.
func Seed(ctx context.Context, repo repository.VarietyRepository, path string, log *zap.Logger) error {
	vs := DefaultVarieties
	if path != "" {
		var err error
		if vs, err = Load(path); err != nil {
			return err
		}
	}
	if err := repo.Upsert(ctx, vs); err != nil {
		return fmt.Errorf("catalog: seed: %w", err)
	}
	if log != nil {
		log.Info("variety catalog seeded", zap.String("source", path), zap.Int("varieties", len(vs)))
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}
	return x.GetRows(sheets[0])
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func parse(path string, rows [][]string) ([]entities.PlantVarietyProfile, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cName := findAny("name", "variety", "cultivar")
	cSpecies := findAny("species", "crop", "plant")
	cGermMin := findAny("germination_days_min", "germ_min", "germinationmin")
	cGermMax := findAny("germination_days_max", "germ_max", "germinationmax")
	cHarvest := findAny("days_to_harvest", "harvest_days", "maturity_days")
	cSpacing := findAny("spacing_cm", "spacing")
	cWater := findAny("water_requirement", "water", "water_need")
	cSun := findAny("sun_requirement", "sun", "light")
	cPHMin := findAny("ph_min", "phlow")
	cPHMax := findAny("ph_max", "phhigh")
	cECMin := findAny("ec_min", "eclow")
	cECMax := findAny("ec_max", "echigh")
	if cName == -1 || cSpecies == -1 || cHarvest == -1 || cWater == -1 {
		return nil, fmt.Errorf("catalog: %s missing required columns, found %v (need name, species, days_to_harvest, water_requirement)", path, rows[0])
	}

	var out []entities.PlantVarietyProfile
	for n, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		atoi := func(idx int) int {
			v, _ := strconv.Atoi(get(idx))
			return v
		}
		opt := func(idx int) *float64 {
			v, err := strconv.ParseFloat(get(idx), 64)
			if err != nil {
				return nil
			}
			return &v
		}

		name := get(cName)
		if name == "" {
			continue
		}
		tier := entities.WaterTier(strings.ToLower(get(cWater)))
		switch tier {
		case entities.WaterLow, entities.WaterMedium, entities.WaterHigh:
		default:
			return nil, fmt.Errorf("catalog: %s row %d: water requirement %q is not low, medium or high", path, n+2, get(cWater))
		}
		v := entities.PlantVarietyProfile{
			Name:               name,
			Species:            strings.ToLower(get(cSpecies)),
			GerminationDaysMin: atoi(cGermMin),
			GerminationDaysMax: atoi(cGermMax),
			DaysToHarvest:      atoi(cHarvest),
			WaterRequirement:   tier,
			SunRequirement:     get(cSun),
			PHMin:              opt(cPHMin),
			PHMax:              opt(cPHMax),
			ECMin:              opt(cECMin),
			ECMax:              opt(cECMax),
		}
		if s := opt(cSpacing); s != nil {
			v.SpacingCM = *s
		}
		out = append(out, v)
	}
	return out, nil
}
