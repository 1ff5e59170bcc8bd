package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler(t *testing.T) {
	ts := newTestServer(t)

	root := ts.create("/api/v1/kategoriler", map[string]interface{}{"ad": "Makine"})
	rootID := root["id"].(string)
	child := ts.create("/api/v1/kategoriler", map[string]interface{}{"ad": "Traktör", "ust_kategori_id": rootID})
	ts.create("/api/v1/kategoriler", map[string]interface{}{"ad": "Ekipman", "ust_kategori_id": rootID})
	ts.create("/api/v1/kategoriler", map[string]interface{}{"ad": "Gübre"})

	t.Run("tree", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/v1/kategoriler", ts.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		forest := decodeList(t, w)
		require.Len(t, forest, 2)
		assert.Equal(t, "Gübre", forest[0]["ad"])
		assert.Equal(t, "Makine", forest[1]["ad"])

		children := forest[1]["altKategoriler"].([]interface{})
		require.Len(t, children, 2)
		assert.Equal(t, "Ekipman", children[0].(map[string]interface{})["ad"])
		assert.Empty(t, forest[0]["altKategoriler"])
	})

	t.Run("flat", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/v1/kategoriler?duz=true", ts.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decodeList(t, w)
		assert.Len(t, list, 4)
		assert.NotContains(t, list[0], "altKategoriler")
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		w := ts.do(http.MethodPut, "/api/v1/kategoriler/"+rootID, ts.userToken,
			map[string]interface{}{"ad": "Makine", "ust_kategori_id": child["id"]})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("parent with children cannot be deleted", func(t *testing.T) {
		w := ts.do(http.MethodDelete, "/api/v1/kategoriler/"+rootID, ts.userToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = ts.do(http.MethodDelete, "/api/v1/kategoriler/"+child["id"].(string), ts.userToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
