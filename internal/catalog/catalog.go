// Package catalog holds the clinic's static service list. It is
// read-only reference data: the scheduling engine never mutates it and
// service durations are informational only (every booking occupies one
// fixed-length slot).
package catalog

// Service is one entry of the service catalog.
type Service struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"durationMinutes"`
	PriceCOP    int    `json:"price"`
	Description string `json:"description,omitempty"`
}

var services = []Service{
	{ID: 1, Name: "Consulta", DurationMin: 60, PriceCOP: 65000, Description: "Evaluación completa inicial para diagnóstico fisioterapéutico."},
	{ID: 2, Name: "Valoración por fisioterapia + ecografía especializada", DurationMin: 60, PriceCOP: 85000, Description: "Diagnóstico preciso mediante tecnología de ultrasonido."},
	{ID: 3, Name: "Sesión de descarga muscular en piernas", DurationMin: 90, PriceCOP: 75000, Description: "Recuperación muscular profunda enfocada en extremidades inferiores."},
	{ID: 4, Name: "Terapia física avanzada y manejo del dolor", DurationMin: 60, PriceCOP: 65000, Description: "Tratamiento integral para aliviar dolor y recuperar movilidad."},
	{ID: 5, Name: "Paquete 5 sesiones terapia física y manejo del dolor", DurationMin: 300, PriceCOP: 250000, Description: "Plan completo de recuperación con descuento especial."},
	{ID: 6, Name: "Sesión de ejercicio personalizado", DurationMin: 60, PriceCOP: 50000, Description: "Rutinas guiadas adaptadas a tus necesidades físicas."},
	{ID: 7, Name: "Sesión recovery y relajación", DurationMin: 80, PriceCOP: 80000, Description: "Terapia regenerativa para reducir estrés físico."},
	{ID: 8, Name: "Entrenamiento deportivo", DurationMin: 60, PriceCOP: 60000, Description: "Mejora de rendimiento enfocado en tu disciplina."},
	{ID: 9, Name: "Acondicionamiento físico en el embarazo", DurationMin: 60, PriceCOP: 50000, Description: "Ejercicios seguros para la salud de la mamá y el bebé."},
	{ID: 10, Name: "Sesión pilates piso", DurationMin: 60, PriceCOP: 50000, Description: "Fortalecimiento del core y mejora de la postura."},
	{ID: 11, Name: "Plasma rico en plaquetas", DurationMin: 60, PriceCOP: 165000, Description: "Terapia regenerativa para lesiones articulares o musculares."},
	{ID: 12, Name: "3 sesiones plasma rico en plaquetas", DurationMin: 180, PriceCOP: 450000, Description: "Tratamiento completo regenerativo."},
	{ID: 13, Name: "Limpieza facial profunda", DurationMin: 90, PriceCOP: 90000, Description: "Higiene facial clínica para renovar tu piel."},
	{ID: 14, Name: "Limpieza facial profunda con alta hidratación", DurationMin: 120, PriceCOP: 120000, Description: "Tratamiento intensivo de hidratación y limpieza."},
	{ID: 15, Name: "Plasma rico en hidratación facial + plaquetas", DurationMin: 60, PriceCOP: 160000, Description: "Rejuvenecimiento facial avanzado."},
	{ID: 16, Name: "Educación continua", DurationMin: 0, PriceCOP: 0, Description: "Talleres y formación especializada."},
	{ID: 17, Name: "Venta de insumos y suministros médicos", DurationMin: 0, PriceCOP: 0, Description: "Productos especializados para tu recuperación."},
}

// Catalog resolves services by id.
type Catalog struct {
	byID  map[int]Service
	order []Service
}

// Default returns the clinic catalog.
func Default() *Catalog {
	c := &Catalog{byID: make(map[int]Service, len(services))}
	for _, s := range services {
		c.byID[s.ID] = s
		c.order = append(c.order, s)
	}
	return c
}

// Get returns the service with the given id.
func (c *Catalog) Get(id int) (Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Exists reports whether a service id is in the catalog.
func (c *Catalog) Exists(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns the catalog in declaration order.
func (c *Catalog) All() []Service {
	return append([]Service(nil), c.order...)
}

// Name returns the display name for an id, or an empty string.
func (c *Catalog) Name(id int) string {
	return c.byID[id].Name
}
