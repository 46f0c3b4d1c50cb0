package database

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type DatabaseInst struct {
	client *gorm.DB
}

func NewDatabaseInst(url string, config *gorm.Config) (*DatabaseInst, error) {
	db, err := gorm.Open(mysql.Open(url), config)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(500)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DatabaseInst{client: db}, nil
}

func (d *DatabaseInst) GetClient() *gorm.DB {
	return d.client
}

func (d *DatabaseInst) Migrate() error {
	if err := d.client.AutoMigrate(&Category{}, &Product{}, &User{}, &UserKeys{}); err != nil {
		return err
	}
	return d.createStoredProcedures()
}

// All reads and writes on products and categories go through stored
// procedures. They are (re)created on every startup so schema and procedures
// cannot drift apart.
func (d *DatabaseInst) createStoredProcedures() error {
	procedures := []struct {
		name string
		body string
	}{
		{
			name: "sp_get_products",
			body: `CREATE PROCEDURE sp_get_products()
BEGIN
    SELECT * FROM products ORDER BY id;
END`,
		},
		{
			name: "sp_get_product_by_id",
			body: `CREATE PROCEDURE sp_get_product_by_id(IN p_id INT)
BEGIN
    SELECT * FROM products WHERE id = p_id;
END`,
		},
		{
			name: "sp_create_product",
			body: `CREATE PROCEDURE sp_create_product(
    IN p_name VARCHAR(255),
    IN p_description TEXT,
    IN p_price DECIMAL(10,2),
    IN p_quantity INT,
    IN p_category_id INT
)
BEGIN
    INSERT INTO products (name, description, price, quantity, category_id, created_at, updated_at)
    VALUES (p_name, p_description, p_price, p_quantity, p_category_id, NOW(), NOW());
    SELECT * FROM products WHERE id = LAST_INSERT_ID();
END`,
		},
		{
			name: "sp_update_product",
			body: `CREATE PROCEDURE sp_update_product(
    IN p_id INT,
    IN p_name VARCHAR(255),
    IN p_description TEXT,
    IN p_price DECIMAL(10,2),
    IN p_category_id INT
)
BEGIN
    UPDATE products
    SET name = p_name,
        description = p_description,
        price = p_price,
        category_id = p_category_id,
        updated_at = NOW()
    WHERE id = p_id;
    SELECT * FROM products WHERE id = p_id;
END`,
		},
		{
			name: "sp_update_product_stock",
			body: `CREATE PROCEDURE sp_update_product_stock(IN p_id INT, IN p_quantity INT)
BEGIN
    UPDATE products SET quantity = p_quantity, updated_at = NOW() WHERE id = p_id;
    SELECT * FROM products WHERE id = p_id;
END`,
		},
		{
			name: "sp_delete_product",
			body: `CREATE PROCEDURE sp_delete_product(IN p_id INT)
BEGIN
    DELETE FROM products WHERE id = p_id;
END`,
		},
		{
			name: "sp_get_categories",
			body: `CREATE PROCEDURE sp_get_categories()
BEGIN
    SELECT * FROM categories ORDER BY id;
END`,
		},
		{
			name: "sp_get_category_by_id",
			body: `CREATE PROCEDURE sp_get_category_by_id(IN p_id INT)
BEGIN
    SELECT * FROM categories WHERE id = p_id;
END`,
		},
		{
			name: "sp_create_category",
			body: `CREATE PROCEDURE sp_create_category(IN p_name VARCHAR(255), IN p_description TEXT)
BEGIN
    INSERT INTO categories (name, description, created_at, updated_at)
    VALUES (p_name, p_description, NOW(), NOW());
    SELECT * FROM categories WHERE id = LAST_INSERT_ID();
END`,
		},
		{
			name: "sp_update_category",
			body: `CREATE PROCEDURE sp_update_category(IN p_id INT, IN p_name VARCHAR(255), IN p_description TEXT)
BEGIN
    UPDATE categories
    SET name = p_name,
        description = p_description,
        updated_at = NOW()
    WHERE id = p_id;
    SELECT * FROM categories WHERE id = p_id;
END`,
		},
		{
			name: "sp_delete_category",
			body: `CREATE PROCEDURE sp_delete_category(IN p_id INT)
BEGIN
    DELETE FROM categories WHERE id = p_id;
END`,
		},
	}

	for _, proc := range procedures {
		if err := d.client.Exec("DROP PROCEDURE IF EXISTS " + proc.name).Error; err != nil {
			return err
		}
		if err := d.client.Exec(proc.body).Error; err != nil {
			return err
		}
	}

	return nil
}
