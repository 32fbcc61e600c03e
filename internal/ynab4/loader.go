package ynab4

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/ynab4import/internal/logger"
)

const (
	metaFile   = "Budget.ymeta"
	budgetFile = "Budget.yfull"
	devicesDir = "devices"
)

// Snapshot is the authoritative budget of a .ynab4 folder.
type Snapshot struct {
	Name   string
	Device Device
	Budget Budget
}

// BudgetName derives the display name of a .ynab4 folder
// ("Household~1A2B3C4D.ynab4" -> "Household").
func BudgetName(dir string) string {
	name := strings.TrimSuffix(filepath.Base(filepath.Clean(dir)), ".ynab4")
	if idx := strings.LastIndex(name, "~"); idx > 0 {
		name = name[:idx]
	}
	return name
}

// DataDir resolves the data folder named by Budget.ymeta.
func DataDir(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", metaFile, err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", fmt.Errorf("decode %s: %w", metaFile, err)
	}
	if strings.TrimSpace(meta.RelativeDataFolderName) == "" {
		return "", fmt.Errorf("%s: relativeDataFolderName is empty", metaFile)
	}
	return filepath.Join(dir, meta.RelativeDataFolderName), nil
}

// ReadDeviceFolder lists the device records of a .ynab4 folder.
func ReadDeviceFolder(ctx context.Context, dir string) ([]Device, error) {
	dataDir, err := DataDir(dir)
	if err != nil {
		return nil, err
	}
	return ReadDevices(ctx, filepath.Join(dataDir, devicesDir))
}

// ReadBudget decodes a Budget.yfull file.
func ReadBudget(path string) (Budget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Budget{}, fmt.Errorf("read budget: %w", err)
	}
	var b Budget
	if err := json.Unmarshal(data, &b); err != nil {
		return Budget{}, fmt.Errorf("decode budget %s: %w", path, err)
	}
	return b, nil
}

// Load selects the authoritative device of a .ynab4 folder and reads its budget.
func Load(ctx context.Context, dir string) (Snapshot, error) {
	dataDir, err := DataDir(dir)
	if err != nil {
		return Snapshot{}, err
	}
	devices, err := ReadDevices(ctx, filepath.Join(dataDir, devicesDir))
	if err != nil {
		return Snapshot{}, err
	}
	device, err := SelectDevice(devices)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", dir, err)
	}
	log := logger.FromContext(ctx)
	log.Info().
		Str("device", device.DeviceGUID).
		Str("name", device.FriendlyName).
		Int("candidates", len(devices)).
		Msg("selected device snapshot")

	budget, err := ReadBudget(filepath.Join(dataDir, device.DeviceGUID, budgetFile))
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Name: BudgetName(dir), Device: device, Budget: budget}, nil
}
