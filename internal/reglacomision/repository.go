package reglacomision

import "gorm.io/gorm"

// Repository encapsula operaciones de banco para ReglaComision.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Crear(regla *ReglaComision) error {
	return r.DB.Create(regla).Error
}

func (r *Repository) ListarTodas() ([]ReglaComision, error) {
	var reglas []ReglaComision
	err := r.DB.Order("categoria").Find(&reglas).Error
	return reglas, err
}

func (r *Repository) BuscarPorID(id uint) (*ReglaComision, error) {
	var regla ReglaComision
	if err := r.DB.First(&regla, id).Error; err != nil {
		return nil, err
	}
	return &regla, nil
}

func (r *Repository) Actualizar(regla *ReglaComision) error {
	return r.DB.Save(regla).Error
}

func (r *Repository) Eliminar(regla *ReglaComision) error {
	return r.DB.Delete(regla).Error
}

// CargarActivas arma el mapa categoría → porcentaje con las reglas
// activas, que es la forma que consume el matcher.
func (r *Repository) CargarActivas() (map[string]float64, error) {
	var reglas []ReglaComision
	if err := r.DB.Where("activa = ?", true).Find(&reglas).Error; err != nil {
		return nil, err
	}

	activas := make(map[string]float64, len(reglas))
	for _, regla := range reglas {
		activas[regla.Categoria] = regla.Porcentaje
	}
	return activas, nil
}
