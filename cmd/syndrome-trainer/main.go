package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"rockrules.io/syndrome/defaultcollab"
	"rockrules.io/syndrome/engine"
	"rockrules.io/syndrome/internal/config"
	"rockrules.io/syndrome/internal/httpapi"
	"rockrules.io/syndrome/internal/logx"
	"rockrules.io/syndrome/internal/modelstore"
	"rockrules.io/syndrome/internal/resmon"
	"rockrules.io/syndrome/model/export"
	"rockrules.io/syndrome/sampling"
)

func main() {
	configPath := flag.String("config", "", "path to run config (yaml)")
	featuresPath := flag.String("features", "", "path to dense feature CSV (rows=examples, cols=features)")
	slotsPath := flag.String("slots", "", "path to CSV with one (timeSlot, groundTruth) row per example's slot, sorted by timeSlot")
	storePath := flag.String("store", "syndrome.db", "sqlite model store path")
	httpAddr := flag.String("http", "", "if set, serve /healthz and /progress on this address")
	flag.Parse()

	log := logx.New()
	defer log.Sync()

	if *configPath == "" || *featuresPath == "" || *slotsPath == "" {
		log.Errorf("missing required flags: -config -features -slots")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("loading config: %v", err)
		os.Exit(1)
	}

	rows, err := readFeatureCSV(*featuresPath)
	if err != nil {
		log.Errorf("reading features: %v", err)
		os.Exit(1)
	}
	timeSlotOfExample, groundTruth, err := readSlotCSV(*slotsPath)
	if err != nil {
		log.Errorf("reading slots: %v", err)
		os.Exit(1)
	}

	labelMatrix := defaultcollab.NewDenseLabelMatrix(timeSlotOfExample, groundTruth)
	featureMatrix := defaultcollab.NewDenseFeatureSource(rows)
	nominalMask := defaultcollab.NewStaticNominalMask(nil)
	rng := defaultcollab.NewSeededRNG(cfg.Seed)

	deps := engine.Deps{
		LabelMatrix:     labelMatrix,
		FeatureMatrix:   featureMatrix,
		NominalMask:     nominalMask,
		RNG:             rng,
		FeatureSampler:  sampling.NewUniformFeatureSubSampler(featureMatrix.NumCols(), cfg.NumFeatureSamples),
		InstanceSampler: sampling.NewUniformInstanceSubSampler(cfg.NumInstanceSamples),
		Stopping:        defaultcollab.MaxRulesStoppingCriterion{Max: cfg.MaxRules},
		Log:             log,
	}

	progress := engine.NewProgress()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if sampler, err := resmon.NewSampler(10*time.Second, func(s resmon.Snapshot) {
		log.Infof("resources: cpu=%.1f%% rss=%dMB goroutines=%d", s.CPUPercent, s.RSSBytes/(1<<20), s.NumGoroutine)
	}); err == nil {
		go sampler.Run(ctx)
	} else {
		log.Warnf("resource sampler unavailable: %v", err)
	}

	if *httpAddr != "" {
		go func() {
			if err := httpapi.NewRouter(progress).Run(*httpAddr); err != nil {
				log.Errorf("http server: %v", err)
			}
		}()
	}

	list, err := engine.Run(deps, cfg, progress)
	if err != nil {
		log.Errorf("induction run failed: %v", err)
		os.Exit(1)
	}

	fmt.Println(export.ToTable(list))

	store, err := modelstore.Open(*storePath)
	if err != nil {
		log.Errorf("opening model store: %v", err)
		os.Exit(1)
	}
	id, err := store.Save(fmt.Sprintf("%+v", cfg), list, progress.Read().CurrentQuality)
	if err != nil {
		log.Errorf("saving run: %v", err)
		os.Exit(1)
	}
	log.Infof("saved run %d with %d rules", id, len(list.Rules))
}

func readFeatureCSV(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([][]float32, len(records))
	for i, rec := range records {
		row := make([]float32, len(rec))
		for j, cell := range rec {
			if cell == "" {
				row[j] = float32(math.NaN()) // NaN marks missing
				continue
			}
			v, err := strconv.ParseFloat(cell, 32)
			if err != nil {
				return nil, fmt.Errorf("features[%d][%d]: %w", i, j, err)
			}
			row[j] = float32(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func readSlotCSV(path string) (timeSlotOfExample []uint32, valuesByTimeSlot []uint32, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	timeSlotOfExample = make([]uint32, len(records))
	maxSlot := uint32(0)
	for i, rec := range records {
		slot, err := strconv.ParseUint(rec[0], 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("slots[%d]: %w", i, err)
		}
		timeSlotOfExample[i] = uint32(slot)
		if uint32(slot) > maxSlot {
			maxSlot = uint32(slot)
		}
	}

	valuesByTimeSlot = make([]uint32, maxSlot+1)
	seen := make([]bool, maxSlot+1)
	for i, rec := range records {
		if len(rec) < 2 || seen[timeSlotOfExample[i]] {
			continue
		}
		v, err := strconv.ParseUint(rec[1], 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("slots[%d] groundTruth: %w", i, err)
		}
		valuesByTimeSlot[timeSlotOfExample[i]] = uint32(v)
		seen[timeSlotOfExample[i]] = true
	}
	return timeSlotOfExample, valuesByTimeSlot, nil
}
