package handlers

import (
	"net/http"

	"gajanji-server/src/logger"
	"gajanji-server/src/util"
)

func ClearCache(cache ViewCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache.Clear()
		logger.FromContext(r.Context()).Info("View cache cleared")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
	}
}
