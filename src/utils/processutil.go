package utils

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// WriteSheet 将DataFrame写入工作表，第一行为列名，缺失值留空
// 返回写入的数据行数
func WriteSheet(f *excelize.File, sheetName string, df dataframe.DataFrame) (int, error) {
	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return 0, fmt.Errorf("写入列名失败: %w", err)
		}
	}

	// 写入数据
	for colIdx, colName := range colNames {
		col := df.Col(colName)
		for rowIdx := 0; rowIdx < col.Len(); rowIdx++ {
			e := col.Elem(rowIdx)
			if e.IsNA() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheetName, cell, e.Val()); err != nil {
				return 0, fmt.Errorf("写入单元格%s失败: %w", cell, err)
			}
		}
	}
	return df.Nrow(), nil
}
