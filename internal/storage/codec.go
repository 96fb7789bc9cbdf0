package storage

import (
	"encoding/json"
	"errors"
	"sort"

	"evogame/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp fills in the current versions on a record that has none.
func Stamp(run model.RunRecord) model.RunRecord {
	if run.SchemaVersion == 0 && run.CodecVersion == 0 {
		run.VersionedRecord = model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		}
	}
	return run
}

func EncodeRun(run model.RunRecord) ([]byte, error) {
	if err := checkVersion(run.VersionedRecord); err != nil {
		return nil, err
	}
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func cloneRun(run model.RunRecord) model.RunRecord {
	run.History = append([]model.HistoryRecord(nil), run.History...)
	return run
}

func sortNewestFirst(runs []model.RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i].CreatedAtUTC, runs[j].CreatedAtUTC
		if model.NewerThan(a, b) {
			return true
		}
		if model.NewerThan(b, a) {
			return false
		}
		return runs[i].ID < runs[j].ID
	})
}
