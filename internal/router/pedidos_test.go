package router

import (
	"fmt"
	"testing"
	"time"

	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crearMesa(t *testing.T, numero uint) *models.Mesa {
	t.Helper()
	mesa := models.Mesa{Numero: numero, Capacidad: 4, Estado: models.MesaOcupada}
	require.NoError(t, database.DB.Create(&mesa).Error)
	return &mesa
}

func TestCrearPedido(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "empleado", models.GrupoEmpleados, false)
	mesa := crearMesa(t, 1)

	resp := doRequest(t, app, "POST", "/api/pedidos/create", token, fiber.Map{
		"mesa":        mesa.ID,
		"descripcion": "Dos menús del día",
		"total":       24.5,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, float64(mesa.ID), body["mesa"])
	assert.Equal(t, 24.5, body["total"])
	assert.Equal(t, "pendiente", body["estado"])
	assert.Equal(t, "Pendiente", body["estado_display"])

	mesaInfo, ok := body["mesa_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), mesaInfo["numero"])
}

func TestCrearPedidoTotalNegativo(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "empleado", models.GrupoEmpleados, false)
	mesa := crearMesa(t, 1)

	resp := doRequest(t, app, "POST", "/api/pedidos/create", token, fiber.Map{
		"mesa":        mesa.ID,
		"descripcion": "Café",
		"total":       -1.5,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "El total no puede ser negativo.", body["error"])

	var count int64
	database.DB.Model(&models.Pedido{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCrearPedidoMesaInexistente(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "empleado", models.GrupoEmpleados, false)

	resp := doRequest(t, app, "POST", "/api/pedidos/create", token, fiber.Map{
		"mesa":        99,
		"descripcion": "Café",
		"total":       1.5,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestActualizarPedido(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "empleado", models.GrupoEmpleados, false)
	mesa := crearMesa(t, 1)

	pedido := models.Pedido{MesaID: mesa.ID, Descripcion: "Croquetas", Total: 8, Estado: models.PedidoPendiente}
	require.NoError(t, database.DB.Create(&pedido).Error)

	resp := doRequest(t, app, "PATCH", fmt.Sprintf("/api/pedidos/%d", pedido.ID), token, fiber.Map{
		"estado": "servido",
		"total":  9.5,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "servido", body["estado"])
	assert.Equal(t, 9.5, body["total"])

	// El total negativo se rechaza también al actualizar
	resp = doRequest(t, app, "PATCH", fmt.Sprintf("/api/pedidos/%d", pedido.ID), token, fiber.Map{
		"total": -2,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var guardado models.Pedido
	require.NoError(t, database.DB.First(&guardado, pedido.ID).Error)
	assert.Equal(t, 9.5, guardado.Total)

	// Estado fuera del enum
	resp = doRequest(t, app, "PATCH", fmt.Sprintf("/api/pedidos/%d", pedido.ID), token, fiber.Map{
		"estado": "quemado",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListarPedidosMasRecientesPrimero(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "empleado", models.GrupoEmpleados, false)
	mesa := crearMesa(t, 1)

	base := time.Now().Add(-time.Hour)
	for i, desc := range []string{"primero", "segundo", "tercero"} {
		pedido := models.Pedido{
			MesaID:      mesa.ID,
			Descripcion: desc,
			Estado:      models.PedidoPendiente,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, database.DB.Create(&pedido).Error)
	}

	resp := doRequest(t, app, "GET", "/api/pedidos", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []map[string]any
	decodeJSON(t, resp, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "tercero", list[0]["descripcion"])
	assert.Equal(t, "primero", list[2]["descripcion"])
}

func TestEliminarPedidoSoloAdministradores(t *testing.T) {
	app := setupTest(t)
	_, empleadoToken := createUser(t, "empleado", models.GrupoEmpleados, false)
	_, adminToken := createUser(t, "admin", models.GrupoAdministradores, false)
	mesa := crearMesa(t, 1)

	pedido := models.Pedido{MesaID: mesa.ID, Descripcion: "Postre", Total: 4, Estado: models.PedidoServido}
	require.NoError(t, database.DB.Create(&pedido).Error)

	resp := doRequest(t, app, "DELETE", fmt.Sprintf("/api/pedidos/%d/delete", pedido.ID), empleadoToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", fmt.Sprintf("/api/pedidos/%d/delete", pedido.ID), adminToken, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", "/api/pedidos/999/delete", adminToken, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
