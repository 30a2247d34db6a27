package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/AgenciaMedios/api-agencia/internal/auth"
	"github.com/AgenciaMedios/api-agencia/internal/bonificacion"
	"github.com/AgenciaMedios/api-agencia/internal/cache"
	"github.com/AgenciaMedios/api-agencia/internal/calendario"
	"github.com/AgenciaMedios/api-agencia/internal/campana"
	"github.com/AgenciaMedios/api-agencia/internal/cliente"
	"github.com/AgenciaMedios/api-agencia/internal/comision"
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/contrato"
	"github.com/AgenciaMedios/api-agencia/internal/dashboard"
	"github.com/AgenciaMedios/api-agencia/internal/medio"
	"github.com/AgenciaMedios/api-agencia/internal/middleware"
	"github.com/AgenciaMedios/api-agencia/internal/notificacion"
	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/permiso"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/proveedor"
	"github.com/AgenciaMedios/api-agencia/internal/rentabilidad"
	"github.com/AgenciaMedios/api-agencia/internal/usuario"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	dbpkg "github.com/AgenciaMedios/api-agencia/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	decimal.MarshalJSONWithoutQuotes = true

	zona, err := time.LoadLocation(cfg.ZonaHoraria)
	if err != nil {
		logger.WithError(err).WithField("zona", cfg.ZonaHoraria).Fatal("Zona horaria inválida")
	}
	utils.Zona = zona

	db, err := dbpkg.GetDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Error al conectar con la base de datos")
	}
	if err := migrar(db); err != nil {
		logger.WithError(err).Fatal("Error en AutoMigrate")
	}
	if err := permiso.Sembrar(db); err != nil {
		logger.WithError(err).Fatal("Error al sembrar permisos")
	}
	creado, err := usuario.AsegurarAdmin(db, usuario.NewRepository(), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.WithError(err).Fatal("Error al crear el administrador inicial")
	}
	if creado {
		logger.WithField("email", cfg.AdminEmail).Info("administrador inicial creado")
	}

	efimera, err := auth.Inicializar(auth.KeyConfig{
		PrivateKeyPath: cfg.AuthPrivateKeyPath,
		KID:            cfg.AuthKID,
		Issuer:         cfg.AuthIssuer,
		Audience:       cfg.AuthAudience,
	})
	if err != nil {
		logger.WithError(err).Fatal("Error al cargar la llave RSA")
	}
	if efimera {
		logger.Warn("AUTH_RSA_PRIVATE_PATH vacío: usando llave efímera, los tokens no sobreviven a un reinicio")
	}

	ctx := context.Background()
	cacheObj, err := cache.Conectar(ctx, cfg.RedisAddress)
	if err != nil {
		logger.WithError(err).Fatal("Error al conectar con Redis")
	}
	if !cacheObj.Habilitado() {
		logger.Info("REDIS_ADDRESS vacío: sin cache ni lock distribuido")
	}

	r := router(cfg, db, cacheObj, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(middleware.RequestLogger(logger)(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Error en el servidor")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error al detener el servidor")
	}
	if cacheObj.Habilitado() {
		_ = cacheObj.Client.Close()
	}
	logger.Info("Servidor detenido")
}

func migrar(db *gorm.DB) error {
	if err := permiso.Migrate(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&usuario.Usuario{},
		&cliente.Cliente{},
		&campana.Campana{},
		&proveedor.Proveedor{},
		&medio.Medio{},
		&medio.Soporte{},
		&contrato.Contrato{},
		&plan.Plan{},
		&plan.Alternativa{},
		&orden.Orden{},
		&comision.ConfiguracionComision{},
		&bonificacion.BonificacionMedio{},
		&rentabilidad.OportunidadDetectada{},
	)
}

func router(cfg config.Config, db *gorm.DB, cacheObj *cache.Cache, logger *logrus.Logger) *mux.Router {
	webhook := notificacion.NewWebhook(cfg.WebhookURL)
	ordenService := orden.NewService(db, cacheObj, webhook, cacheObj, logger)
	rentService := rentabilidad.NewService(db, logger, cfg.ComisionDefault, cfg.MargenMinimo)
	dashService := dashboard.NewService(db, rentService, cacheObj, logger)

	// Handlers
	usuarioHandler := usuario.NewHandler(db, logger)
	permisoHandler := permiso.NewHandler(db, logger)
	clienteHandler := cliente.NewHandler(db, logger)
	campanaHandler := campana.NewHandler(db, logger)
	proveedorHandler := proveedor.NewHandler(db, logger)
	medioHandler := medio.NewHandler(db, logger)
	contratoHandler := contrato.NewHandler(db, logger)
	planHandler := plan.NewHandler(db, logger)
	ordenHandler := orden.NewHandler(ordenService)
	comisionHandler := comision.NewHandler(db, logger, cfg.ComisionDefault)
	bonificacionHandler := bonificacion.NewHandler(db, logger)
	rentHandler := rentabilidad.NewHandler(rentService)
	dashHandler := dashboard.NewHandler(dashService)
	calendarioHandler := calendario.NewHandler(db, logger)

	permisos := permiso.NewRepository()
	con := func(codigo string, h http.HandlerFunc) http.Handler {
		return permiso.RequierePermiso(db, permisos, logger, codigo)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAdmin(h)
	}

	r := mux.NewRouter()

	// Rutas públicas
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", usuarioHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/.well-known/jwks.json", auth.JWKSHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacion)

	// Usuarios: /me antes de /{id}
	api.HandleFunc("/usuarios/me", usuarioHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/me/permisos", permisoHandler.MisPermisos).Methods(http.MethodGet)
	api.Handle("/usuarios", admin(usuarioHandler.CrearUsuario)).Methods(http.MethodPost)
	api.Handle("/usuarios", admin(usuarioHandler.ListarUsuarios)).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/{id}", usuarioHandler.BuscarPorID).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/{id}", usuarioHandler.ActualizarUsuario).Methods(http.MethodPut)
	api.Handle("/usuarios/{id}", admin(usuarioHandler.EliminarUsuario)).Methods(http.MethodDelete)

	// Permisos y perfiles
	api.Handle("/permisos", con(permiso.PerfilesEditar, permisoHandler.ListarPermisos)).Methods(http.MethodGet)
	api.Handle("/permisos/matriz", con(permiso.PerfilesEditar, permisoHandler.Matriz)).Methods(http.MethodGet)
	api.Handle("/perfiles", con(permiso.PerfilesEditar, permisoHandler.ListarPerfiles)).Methods(http.MethodGet)
	api.Handle("/perfiles", con(permiso.PerfilesEditar, permisoHandler.CrearPerfil)).Methods(http.MethodPost)
	api.Handle("/perfiles/{id}/permisos", con(permiso.PerfilesEditar, permisoHandler.AsignarPermisos)).Methods(http.MethodPut)

	// Clientes
	api.Handle("/clientes", con(permiso.ClientesEditar, clienteHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/clientes", con(permiso.ClientesVer, clienteHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/clientes/{id}", con(permiso.ClientesVer, clienteHandler.BuscarPorID)).Methods(http.MethodGet)
	api.Handle("/clientes/{id}", con(permiso.ClientesEditar, clienteHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/clientes/{id}", con(permiso.ClientesEditar, clienteHandler.Eliminar)).Methods(http.MethodDelete)
	api.Handle("/clientes/{id}/campanas", con(permiso.CampanasVer, campanaHandler.ListarPorCliente)).Methods(http.MethodGet)
	api.Handle("/clientes/{id}/contratos", con(permiso.ContratosVer, contratoHandler.Listar)).Methods(http.MethodGet)

	// Campañas
	api.Handle("/campanas", con(permiso.CampanasEditar, campanaHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/campanas", con(permiso.CampanasVer, campanaHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/campanas/{id}", con(permiso.CampanasVer, campanaHandler.BuscarPorID)).Methods(http.MethodGet)
	api.Handle("/campanas/{id}", con(permiso.CampanasEditar, campanaHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/campanas/{id}", con(permiso.CampanasEditar, campanaHandler.Eliminar)).Methods(http.MethodDelete)

	// Proveedores
	api.Handle("/proveedores", con(permiso.ProveedoresEditar, proveedorHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/proveedores", con(permiso.ProveedoresVer, proveedorHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/proveedores/{id}", con(permiso.ProveedoresVer, proveedorHandler.BuscarPorID)).Methods(http.MethodGet)
	api.Handle("/proveedores/{id}", con(permiso.ProveedoresEditar, proveedorHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/proveedores/{id}", con(permiso.ProveedoresEditar, proveedorHandler.Eliminar)).Methods(http.MethodDelete)

	// Medios y soportes
	api.Handle("/medios", con(permiso.MediosEditar, medioHandler.CrearMedio)).Methods(http.MethodPost)
	api.Handle("/medios", con(permiso.MediosVer, medioHandler.ListarMedios)).Methods(http.MethodGet)
	api.Handle("/medios/{id}", con(permiso.MediosVer, medioHandler.BuscarMedio)).Methods(http.MethodGet)
	api.Handle("/medios/{id}", con(permiso.MediosEditar, medioHandler.ActualizarMedio)).Methods(http.MethodPut)
	api.Handle("/medios/{id}", con(permiso.MediosEditar, medioHandler.EliminarMedio)).Methods(http.MethodDelete)
	api.Handle("/medios/{id}/soportes", con(permiso.MediosVer, medioHandler.ListarSoportes)).Methods(http.MethodGet)
	api.Handle("/soportes", con(permiso.MediosEditar, medioHandler.CrearSoporte)).Methods(http.MethodPost)
	api.Handle("/soportes", con(permiso.MediosVer, medioHandler.ListarSoportes)).Methods(http.MethodGet)
	api.Handle("/soportes/{id}", con(permiso.MediosEditar, medioHandler.ActualizarSoporte)).Methods(http.MethodPut)
	api.Handle("/soportes/{id}", con(permiso.MediosEditar, medioHandler.EliminarSoporte)).Methods(http.MethodDelete)

	// Contratos
	api.Handle("/contratos", con(permiso.ContratosEditar, contratoHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/contratos", con(permiso.ContratosVer, contratoHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/contratos/{id}", con(permiso.ContratosVer, contratoHandler.BuscarPorID)).Methods(http.MethodGet)
	api.Handle("/contratos/{id}", con(permiso.ContratosEditar, contratoHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/contratos/{id}", con(permiso.ContratosEditar, contratoHandler.Eliminar)).Methods(http.MethodDelete)

	// Planes y alternativas
	api.Handle("/planes", con(permiso.PlanesEditar, planHandler.CrearPlan)).Methods(http.MethodPost)
	api.Handle("/planes", con(permiso.PlanesVer, planHandler.ListarPlanes)).Methods(http.MethodGet)
	api.Handle("/planes/{id}", con(permiso.PlanesVer, planHandler.BuscarPlan)).Methods(http.MethodGet)
	api.Handle("/planes/{id}", con(permiso.PlanesEditar, planHandler.ActualizarPlan)).Methods(http.MethodPut)
	api.Handle("/planes/{id}", con(permiso.PlanesEditar, planHandler.EliminarPlan)).Methods(http.MethodDelete)
	api.Handle("/planes/{id}/duplicar", con(permiso.PlanesEditar, planHandler.Duplicar)).Methods(http.MethodPost)
	api.Handle("/planes/{id}/alternativas", con(permiso.PlanesVer, planHandler.ListarAlternativas)).Methods(http.MethodGet)
	api.Handle("/planes/{id}/alternativas", con(permiso.PlanesEditar, planHandler.CrearAlternativa)).Methods(http.MethodPost)
	api.Handle("/alternativas/{id}", con(permiso.PlanesEditar, planHandler.ActualizarAlternativa)).Methods(http.MethodPut)
	api.Handle("/alternativas/{id}", con(permiso.PlanesEditar, planHandler.EliminarAlternativa)).Methods(http.MethodDelete)

	// Órdenes de compra
	api.Handle("/ordenes", con(permiso.OrdenesCrear, ordenHandler.Emitir)).Methods(http.MethodPost)
	api.Handle("/ordenes", con(permiso.OrdenesVer, ordenHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/ordenes/{id}", con(permiso.OrdenesVer, ordenHandler.BuscarPorID)).Methods(http.MethodGet)
	api.Handle("/ordenes/{id}/versiones", con(permiso.OrdenesVer, ordenHandler.Versiones)).Methods(http.MethodGet)
	api.Handle("/ordenes/{id}/versiones", con(permiso.OrdenesCrear, ordenHandler.NuevaVersion)).Methods(http.MethodPost)
	api.Handle("/ordenes/{id}/anular", con(permiso.OrdenesAnular, ordenHandler.Anular)).Methods(http.MethodPatch)
	api.Handle("/ordenes/{id}/rentabilidad", con(permiso.RentabilidadVer, rentHandler.Orden)).Methods(http.MethodGet)

	// Comisiones y bonificaciones
	api.Handle("/comisiones", con(permiso.ComisionesEditar, comisionHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/comisiones", con(permiso.ComisionesEditar, comisionHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/comisiones/resolver", con(permiso.RentabilidadVer, comisionHandler.ResolverTasa)).Methods(http.MethodGet)
	api.Handle("/comisiones/{id}", con(permiso.ComisionesEditar, comisionHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/comisiones/{id}", con(permiso.ComisionesEditar, comisionHandler.Eliminar)).Methods(http.MethodDelete)
	api.Handle("/bonificaciones", con(permiso.BonificacionesEditar, bonificacionHandler.Crear)).Methods(http.MethodPost)
	api.Handle("/bonificaciones", con(permiso.BonificacionesEditar, bonificacionHandler.Listar)).Methods(http.MethodGet)
	api.Handle("/bonificaciones/{id}", con(permiso.BonificacionesEditar, bonificacionHandler.Actualizar)).Methods(http.MethodPut)
	api.Handle("/bonificaciones/{id}", con(permiso.BonificacionesEditar, bonificacionHandler.Eliminar)).Methods(http.MethodDelete)

	// Rentabilidad
	api.Handle("/rentabilidad/simular", con(permiso.RentabilidadVer, rentHandler.Simular)).Methods(http.MethodPost)
	api.Handle("/rentabilidad/oportunidades", con(permiso.RentabilidadVer, rentHandler.ListarOportunidades)).Methods(http.MethodGet)
	api.Handle("/rentabilidad/oportunidades/detectar", con(permiso.RentabilidadVer, rentHandler.Detectar)).Methods(http.MethodPost)
	api.Handle("/rentabilidad/oportunidades/{id}/estado", con(permiso.RentabilidadVer, rentHandler.CambiarEstado)).Methods(http.MethodPatch)
	api.Handle("/dashboard/rentabilidad", con(permiso.RentabilidadVer, dashHandler.Rentabilidad)).Methods(http.MethodGet)
	api.Handle("/dashboard/rentabilidad/export", con(permiso.RentabilidadVer, dashHandler.Exportar)).Methods(http.MethodGet)

	// Calendario
	api.Handle("/calendario", con(permiso.CalendarioVer, calendarioHandler.Calendario)).Methods(http.MethodGet)

	return r
}
