package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pharma-app/cache"
	"pharma-app/config"
	"pharma-app/controllers/idgen"
	"pharma-app/database"
	"pharma-app/models"
	"pharma-app/repositories"

	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// The processor is the offline counterpart of the upload endpoint: it
// scans the inbox folder for bulk purchase workbooks dropped by the
// back office, imports them and archives the files. File names carry
// the store code as prefix, e.g. ICSTR0001_20260829.xlsx.

func main() {
	config.LoadConfig()

	masterDB, err := database.Open(config.DBMaster)
	if err != nil {
		log.Fatalf("❌ Failed to connect to master database: %v", err)
	}
	ledgerDB, err := database.Open(config.DBLedger)
	if err != nil {
		log.Fatalf("❌ Failed to connect to ledger database: %v", err)
	}

	idgen.Init()
	cache.Init()

	fmt.Println("🚀 Purchase file processor running...")

	checkUnprocessedFiles(masterDB, ledgerDB)

	fmt.Println("✅ All purchase files processed")
}

func checkUnprocessedFiles(masterDB, ledgerDB *gorm.DB) {
	files, err := filepath.Glob(filepath.Join(config.ProcessorInbox, "*.xlsx"))
	if err != nil {
		log.Fatal("❌ Failed to read inbox folder:", err)
	}

	for _, file := range files {
		processFile(masterDB, ledgerDB, file)
	}
}

func processFile(masterDB, ledgerDB *gorm.DB, filename string) {
	fileNameOnly := filepath.Base(filename)

	var existingFile models.FileLog
	if err := ledgerDB.Where("filename = ?", fileNameOnly).First(&existingFile).Error; err == nil {
		log.Println("⚠️ File already processed, skip:", filename)
		return
	}

	storeCode := storeCodeFromFilename(fileNameOnly)
	if storeCode == "" {
		log.Println("⚠️ Unrecognized file name, expected <storecode>_<date>.xlsx:", fileNameOnly)
		return
	}

	info, err := os.Stat(filename)
	if err != nil {
		fmt.Println("❌ Failed to stat file:", err)
		return
	}

	fmt.Println("📂 Processing file:", filename)

	workbook, err := excelize.OpenFile(filename)
	if err != nil {
		fmt.Println("❌ Failed to open workbook:", err)
		return
	}

	rows, err := repositories.ParsePurchaseWorkbook(workbook)
	workbook.Close()
	if err != nil {
		fmt.Println("❌ Failed to parse workbook:", err)
		sendImportReport(fileNameOnly, nil, err)
		return
	}

	stock := repositories.NewStockRepository(ledgerDB)
	pricing := repositories.NewPricingRepository(ledgerDB)
	sequence := repositories.NewSequenceRepository(masterDB)
	purchases := repositories.NewPurchaseRepository(masterDB, ledgerDB, stock, pricing, sequence)

	summary, importErr := purchases.ImportRows(storeCode, rows, 0)
	if importErr != nil {
		fmt.Println("❌ Import failed:", importErr)
	} else {
		fmt.Printf("✅ Imported %d rows across %d invoices\n", summary.RowsApplied, len(summary.InvoicesCommitted))
	}

	ledgerDB.Create(&models.FileLog{Filename: fileNameOnly, DateModified: info.ModTime()})

	sendImportReport(fileNameOnly, summary, importErr)

	archiveFile(filename)
}

// storeCodeFromFilename takes the part before the first underscore.
func storeCodeFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

func archiveFile(filename string) {
	if _, err := os.Stat(config.ProcessorArchive); os.IsNotExist(err) {
		if err := os.MkdirAll(config.ProcessorArchive, os.ModePerm); err != nil {
			log.Fatalf("❌ Failed to create archive folder: %v", err)
		}
	}

	archived := filepath.Join(config.ProcessorArchive, filepath.Base(filename))
	if err := os.Rename(filename, archived); err != nil {
		fmt.Println("⚠️ Rename failed, trying copy & delete...")
		if err := copyAndDeleteFile(filename, archived); err != nil {
			log.Fatalf("❌ Failed to archive file: %v", err)
		}
	}

	fmt.Println("✅ File archived:", archived)
}

func copyAndDeleteFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destinationFile.Close()

	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return err
	}

	return os.Remove(src)
}

func sendImportReport(filename string, summary *repositories.BulkImportSummary, importErr error) {
	if config.SMTPHost == "" || config.ImportReportEmail == "" {
		return
	}

	subject := "📦 Purchase import: " + filename
	status := "completed"
	detail := ""
	if summary != nil {
		detail = fmt.Sprintf("<p>Invoices committed: <strong>%d</strong></p><p>Rows applied: <strong>%d</strong></p>",
			len(summary.InvoicesCommitted), summary.RowsApplied)
	}
	if importErr != nil {
		status = "failed"
		detail += fmt.Sprintf("<p>Error: %s</p>", importErr.Error())
		if summary != nil && summary.FailedInvoice != "" {
			detail += fmt.Sprintf("<p>Failed invoice: %s (row %d)</p>", summary.FailedInvoice, summary.FailedRow)
		}
	}

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Purchase file import %s</h3>
				<p>File: <strong>%s</strong></p>
				%s
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, status, filename, detail)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.ImportReportEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		fmt.Println("❌ Failed to send import report:", err)
		return
	}

	fmt.Println("✅ Import report sent to:", config.ImportReportEmail)
}
