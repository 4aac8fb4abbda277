package models

type Catalog struct {
	Name      string  `json:"name"`
	Comment   *string `json:"comment"`
	Owner     *string `json:"owner"`
	CreatedAt *int64  `json:"created_at"`
}

type CatalogsList struct {
	Catalogs []Catalog `json:"catalogs"`
}

type Schema struct {
	Name        string  `json:"name"`
	CatalogName string  `json:"catalog_name"`
	Comment     *string `json:"comment"`
	Owner       *string `json:"owner"`
	CreatedAt   *int64  `json:"created_at"`
}

type SchemasList struct {
	Schemas []Schema `json:"schemas"`
}

type Version struct {
	Version string `json:"version"`
}
