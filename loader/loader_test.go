package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emuforge/gbacore/loader"
)

var _ = Describe("Loader", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeFile := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, data, 0o644)).To(Succeed())
		return path
	}

	Describe("LoadBIOS", func() {
		It("should read a BIOS image", func() {
			path := writeFile("bios.bin", []byte{1, 2, 3, 4})

			data, err := loader.LoadBIOS(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte{1, 2, 3, 4}))
		})

		It("should accept a full-size image", func() {
			path := writeFile("bios.bin", make([]byte, loader.BIOSSize))

			_, err := loader.LoadBIOS(path)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject an oversized image", func() {
			path := writeFile("bios.bin", make([]byte, loader.BIOSSize+1))

			_, err := loader.LoadBIOS(path)

			Expect(err).To(HaveOccurred())
		})

		It("should report a missing file", func() {
			_, err := loader.LoadBIOS(filepath.Join(dir, "missing.bin"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadROM", func() {
		It("should read a cartridge image", func() {
			path := writeFile("game.gba", []byte{0xAA, 0xBB})

			data, err := loader.LoadROM(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte{0xAA, 0xBB}))
		})

		It("should reject an image over the Game Pak limit", func() {
			path := writeFile("game.gba", make([]byte, loader.MaxROMSize+1))

			_, err := loader.LoadROM(path)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Load", func() {
		It("should load both images", func() {
			biosPath := writeFile("bios.bin", []byte{1})
			romPath := writeFile("game.gba", []byte{2})

			img, err := loader.Load(biosPath, romPath)

			Expect(err).NotTo(HaveOccurred())
			Expect(img.BIOS).To(Equal([]byte{1}))
			Expect(img.ROM).To(Equal([]byte{2}))
		})

		It("should allow either path to be empty", func() {
			romPath := writeFile("game.gba", []byte{2})

			img, err := loader.Load("", romPath)

			Expect(err).NotTo(HaveOccurred())
			Expect(img.BIOS).To(BeNil())
			Expect(img.ROM).To(Equal([]byte{2}))
		})

		It("should propagate read errors", func() {
			_, err := loader.Load(filepath.Join(dir, "missing.bin"), "")
			Expect(err).To(HaveOccurred())
		})
	})
})
