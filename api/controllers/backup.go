package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ubqurrotul/koperasi-backend/api/responses"
	backupsvc "github.com/ubqurrotul/koperasi-backend/internal/backup"
	pkgerrors "github.com/ubqurrotul/koperasi-backend/pkg/errors"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

// BackupExport streams a full snapshot as a downloadable JSON file.
func BackupExport(svc backupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.Export(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("koperasi-backup-%s.json", time.Now().Format("20060102-150405"))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := json.NewEncoder(w).Encode(snapshot); err != nil && logg != nil {
			logg.Error(r.Context(), "write backup response", err)
		}
	}
}

const maxSnapshotBytes = 32 << 20

// BackupImport replaces the portal's state with an uploaded snapshot.
func BackupImport(svc backupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snapshot backupsvc.Snapshot
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
		if err := decoder.Decode(&snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid snapshot"))
			return
		}

		if err := svc.Import(r.Context(), &snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "restored"})
	}
}
