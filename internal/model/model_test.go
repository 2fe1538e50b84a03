package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dreamware/shardflow/internal/model"
)

func TestImportFieldValidateOK(t *testing.T) {
	f := model.ImportField{SourceColumn: "id", TargetColumn: "id", TargetType: "int64"}
	assert.NoError(t, f.Validate())
}

func TestImportFieldValidateEmptySourceColumn(t *testing.T) {
	f := model.ImportField{TargetColumn: "id", TargetType: "int64"}
	assert.Error(t, f.Validate())
}

func TestImportFieldValidateEmptyTargetColumn(t *testing.T) {
	f := model.ImportField{SourceColumn: "id", TargetType: "int64"}
	assert.Error(t, f.Validate())
}

func TestImportFieldValidateEmptyTargetType(t *testing.T) {
	f := model.ImportField{SourceColumn: "id", TargetColumn: "id"}
	assert.Error(t, f.Validate())
}

func TestWorkerString(t *testing.T) {
	w := model.Worker{NodeIdentifier: "node-1", HTTPURI: "http://10.0.0.4:9090"}
	assert.Equal(t, "node-1(http://10.0.0.4:9090)", w.String())
}
